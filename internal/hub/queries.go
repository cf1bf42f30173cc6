package hub

import (
	"unsafe"

	"github.com/char5742/input-hub/internal/bitset"
	"github.com/char5742/input-hub/internal/consts"
	"github.com/char5742/input-hub/internal/utils"
)

// AbsInfo は絶対軸のレンジ情報（input_absinfo相当）
type AbsInfo struct {
	Value      int32 `json:"value"`
	Minimum    int32 `json:"minimum"`
	Maximum    int32 `json:"maximum"`
	Fuzz       int32 `json:"fuzz"`
	Flat       int32 `json:"flat"`
	Resolution int32 `json:"resolution"`
}

// DeviceName はデバイスの表示名を返す。見つからなければfalse
func (h *Hub) DeviceName(id DeviceID) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	dev := h.deviceLocked(id)
	if dev == nil {
		return "", false
	}
	return dev.name, true
}

// DeviceClasses はデバイスクラスのビットマスクを返す。見つからなければ0
func (h *Hub) DeviceClasses(id DeviceID) uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	dev := h.deviceLocked(id)
	if dev == nil {
		return 0
	}
	return dev.classes
}

// AbsoluteInfo は絶対軸のレンジ情報を開いている記述子から取得する
func (h *Hub) AbsoluteInfo(id DeviceID, axis int) (AbsInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	dev := h.deviceLocked(id)
	if dev == nil || axis < 0 || axis > consts.AbsMax {
		return AbsInfo{}, false
	}

	var info AbsInfo
	if err := utils.IOCtl(dev.fd, consts.EVIOCGAbs(axis), unsafe.Pointer(&info)); err != nil {
		h.log.Warn().Err(err).Int("axis", axis).Str("name", dev.name).
			Msg("絶対軸情報の取得に失敗しました")
		return AbsInfo{}, false
	}
	return info, true
}

// SwitchState はスイッチ番号だけを指定して現在の状態を問い合わせる
// スイッチ所有テーブルで所有デバイスを引く。未所有なら-1
func (h *Hub) SwitchState(sw int) int {
	if sw < 0 || sw > consts.SwMax {
		return -1
	}
	h.mu.Lock()
	owner := h.switches[sw]
	h.mu.Unlock()
	if owner == 0 {
		return -1
	}
	return h.DeviceSwitchState(owner, sw)
}

// DeviceSwitchState は指定デバイスのスイッチ状態を実際の記述子に問い合わせる
// 1=オン 0=オフ -1=失敗
func (h *Hub) DeviceSwitchState(id DeviceID, sw int) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	dev := h.deviceLocked(id)
	if dev == nil || sw < 0 || sw > consts.SwMax {
		return -1
	}

	bits := bitset.New(consts.SwMax + 1)
	if err := utils.IOCtl(dev.fd, consts.EVIOCGSw(len(bits.Bytes())), unsafe.Pointer(&bits.Bytes()[0])); err != nil {
		return -1
	}
	if bits.Test(sw) {
		return 1
	}
	return 0
}

// ScancodeState はスキャンコードの現在の押下状態を問い合わせる
// キャッシュは使わず、都度ライブのビットマップを読む。1=押下 0=解放 -1=失敗
func (h *Hub) ScancodeState(id DeviceID, scancode int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scancodeStateLocked(id, scancode)
}

func (h *Hub) scancodeStateLocked(id DeviceID, scancode int) int {
	dev := h.deviceLocked(id)
	if dev == nil || scancode < 0 || scancode > consts.KeyMax {
		return -1
	}

	bits := bitset.New(consts.KeyMax + 1)
	if err := utils.IOCtl(dev.fd, consts.EVIOCGKey(len(bits.Bytes())), unsafe.Pointer(&bits.Bytes()[0])); err != nil {
		return -1
	}
	if bits.Test(scancode) {
		return 1
	}
	return 0
}

// KeycodeState は論理キーコードの現在の押下状態を問い合わせる
//
// 変換表が逆引きしたスキャンコードのどれかひとつでも押されていれば
// 押下とみなす。1=押下 0=解放 -1=失敗
func (h *Hub) KeycodeState(id DeviceID, keycode int) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	dev := h.deviceLocked(id)
	if dev == nil {
		return -1
	}

	bits := bitset.New(consts.KeyMax + 1)
	if err := utils.IOCtl(dev.fd, consts.EVIOCGKey(len(bits.Bytes())), unsafe.Pointer(&bits.Bytes()[0])); err != nil {
		return -1
	}
	for _, sc := range dev.layout.FindScancodes(keycode) {
		if bits.Test(sc) {
			return 1
		}
	}
	return 0
}

// ScancodeToKeycode はスキャンコードを論理キーコードに変換する
// 指定デバイスの変換表を優先し、引けなければデフォルトキーボードの表を使う
func (h *Hub) ScancodeToKeycode(id DeviceID, scancode int) (keycode int, flags uint32, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if dev := h.deviceLocked(id); dev != nil {
		if keycode, flags, ok := dev.layout.Map(scancode); ok {
			return keycode, flags, true
		}
	}
	if h.haveDefaultKeyboard {
		if dev := h.deviceLocked(h.defaultKeyboardID); dev != nil {
			if keycode, flags, ok := dev.layout.Map(scancode); ok {
				return keycode, flags, true
			}
		}
	}
	return 0, 0, false
}

// HasKeys は論理キーコードごとに、開いているいずれかのデバイスの静的な
// キー存在ビットマップが対応スキャンコードを含むかどうかを返す
func (h *Hub) HasKeys(keycodes []int) []bool {
	result := make([]bool, len(keycodes))

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, keycode := range keycodes {
		for _, dev := range h.devices[1:] {
			if dev.hasKeycode(keycode) {
				result[i] = true
				break
			}
		}
	}
	return result
}
