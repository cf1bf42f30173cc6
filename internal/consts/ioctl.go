package consts

// ioctl.hのマクロ演算
const (
	iocNone  = 0x0
	iocWrite = 0x1
	iocRead  = 0x2

	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits
)

func ioc(dir, t, nr, size int) uintptr {
	return uintptr((dir << iocDirShift) | (t << iocTypeShift) |
		(nr << iocNrShift) | (size << iocSizeShift))
}

func ior(t, nr, size int) uintptr {
	return ioc(iocRead, t, nr, size)
}

// EVIOCGVersion はドライバのプロトコルバージョンを取得するioctl
func EVIOCGVersion() uintptr {
	return ior('E', 0x01, 4) // sizeof(int)
}

// EVIOCGID はデバイスIDを取得するioctl
func EVIOCGID() uintptr {
	return ior('E', 0x02, 8) // sizeof(struct input_id)
}

// EVIOCGName はデバイス名を取得するioctl
func EVIOCGName(size int) uintptr {
	return ior('E', 0x06, size)
}

// EVIOCGPhys はデバイスの物理的な位置を取得するioctl
func EVIOCGPhys(size int) uintptr {
	return ior('E', 0x07, size)
}

// EVIOCGUniq はデバイス固有の識別子を取得するioctl
func EVIOCGUniq(size int) uintptr {
	return ior('E', 0x08, size)
}

// EVIOCGKey は現在押下中のキーのビットマップを取得するioctl
func EVIOCGKey(size int) uintptr {
	return ior('E', 0x18, size)
}

// EVIOCGSw は現在のスイッチ状態のビットマップを取得するioctl
func EVIOCGSw(size int) uintptr {
	return ior('E', 0x1b, size)
}

// EVIOCGBit は指定イベント種別の能力ビットマップを取得するioctl
func EVIOCGBit(ev, size int) uintptr {
	return ior('E', 0x20+ev, size)
}

// EVIOCGAbs は絶対軸のレンジ情報を取得するioctl
func EVIOCGAbs(abs int) uintptr {
	return ior('E', 0x40+abs, 24) // sizeof(struct input_absinfo)
}
