package bitset

// Bits は整数コードをキーとする固定長のビット集合
// カーネルから受け取った能力ビットマップをそのまま包む
type Bits struct {
	buf []byte
}

// New は指定ビット数を格納できる空のビット集合を作成する
func New(nbits int) Bits {
	return Bits{buf: make([]byte, (nbits+7)/8)}
}

// FromBytes は既存のバッファをビット集合として包む（コピーしない）
func FromBytes(buf []byte) Bits {
	return Bits{buf: buf}
}

// Bytes はioctlの出力先に使う下位バッファを返す
func (b Bits) Bytes() []byte {
	return b.buf
}

// Len は格納可能なビット数を返す
func (b Bits) Len() int {
	return len(b.buf) * 8
}

// IsZero はバッファ未割り当てかどうかを返す
func (b Bits) IsZero() bool {
	return b.buf == nil
}

// Test はbit番目が立っているかどうかを返す。範囲外はfalse
func (b Bits) Test(bit int) bool {
	if bit < 0 || bit >= b.Len() {
		return false
	}
	return b.buf[bit/8]&(1<<(bit%8)) != 0
}

// Set はbit番目を立てる。範囲外は無視
func (b Bits) Set(bit int) {
	if bit < 0 || bit >= b.Len() {
		return
	}
	b.buf[bit/8] |= 1 << (bit % 8)
}

// Clear はbit番目を落とす
func (b Bits) Clear(bit int) {
	if bit < 0 || bit >= b.Len() {
		return
	}
	b.buf[bit/8] &^= 1 << (bit % 8)
}

// AnyInRange は[lo, hi)の範囲に立っているビットがあるかどうかを返す
func (b Bits) AnyInRange(lo, hi int) bool {
	if lo < 0 {
		lo = 0
	}
	if hi > b.Len() {
		hi = b.Len()
	}
	for i := lo; i < hi; i++ {
		if b.buf[i/8]&(1<<(i%8)) != 0 {
			return true
		}
	}
	return false
}

// Clone はバッファを複製した独立のビット集合を返す
func (b Bits) Clone() Bits {
	if b.buf == nil {
		return Bits{}
	}
	dup := make([]byte, len(b.buf))
	copy(dup, b.buf)
	return Bits{buf: dup}
}
