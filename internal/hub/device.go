package hub

import (
	"github.com/char5742/input-hub/internal/bitset"
	"github.com/char5742/input-hub/internal/keylayout"
)

// DeviceID はデバイス識別子
// 下位16bitがスロット番号、上位bitがスロット再利用ごとに進む世代番号で、
// 閉じたデバイスの識別子が同じスロットの新しいデバイスと衝突しないようにする
// 値0はデフォルトキーボードを指す特別な識別子
type DeviceID int32

const (
	idMask   = 0x0000ffff
	seqMask  = 0x7fff0000
	seqShift = 16
)

// slot は識別子のスロット番号成分を返す
func (id DeviceID) slot() int {
	return int(id) & idMask
}

// デバイスクラスのビットフラグ
const (
	ClassKeyboard      uint32 = 0x0001 // キー入力を受け付ける
	ClassAlphaKey      uint32 = 0x0002 // アルファベット入力が可能
	ClassTouchscreen   uint32 = 0x0004 // タッチスクリーン
	ClassTouchscreenMT uint32 = 0x0008 // マルチタッチ対応タッチスクリーン
	ClassTrackball     uint32 = 0x0010 // トラックボール
	ClassMouse         uint32 = 0x0020 // マウス
	ClassDpad          uint32 = 0x0040 // 方向キーを備える
	ClassHeadset       uint32 = 0x0080 // ヘッドセットスイッチを保持する
	ClassExternal      uint32 = 0x1000 // 外部登録されたイベントソース
)

// 合成イベントの種別（evdevのイベント種別と衝突しない値）
const (
	DeviceAdded   int32 = 0x10000000 // デバイスが追加された
	DeviceRemoved int32 = 0x20000000 // デバイスが取り外された
)

// Device は開いている（または取り外し通知待ちの）入力デバイス1台分の記録
type Device struct {
	id      DeviceID
	path    string
	name    string
	classes uint32
	fd      int

	// 取り外し時点でデフォルトキーボードだったことの印
	// 取り外し通知の識別子を0に正規化するために使う
	wasDefault bool

	// キーボードと分類されたデバイスのみ保持する静的なキー存在ビットマップ
	keyBits bitset.Bits
	// スキャンコード変換表。構築後は常に非nil
	layout *keylayout.Map
}

func newDevice(id DeviceID, path, name string, fd int) *Device {
	return &Device{
		id:     id,
		path:   path,
		name:   name,
		fd:     fd,
		layout: keylayout.New(),
	}
}

// ID はデバイス識別子を返す
func (d *Device) ID() DeviceID { return d.id }

// Path はデバイスノードのパスを返す
func (d *Device) Path() string { return d.path }

// Name はデバイスが報告した表示名を返す
func (d *Device) Name() string { return d.name }

// Classes はデバイスクラスのビットマスクを返す
func (d *Device) Classes() uint32 { return d.classes }

// hasKeycode は変換表が逆引きしたスキャンコードのいずれかを
// 静的キービットマップが含むかどうかを返す
func (d *Device) hasKeycode(keycode int) bool {
	if d.keyBits.IsZero() || d.layout == nil {
		return false
	}
	for _, sc := range d.layout.FindScancodes(keycode) {
		if d.keyBits.Test(sc) {
			return true
		}
	}
	return false
}

// DeviceInfo は問い合わせ用のデバイス情報のスナップショット
type DeviceInfo struct {
	ID      DeviceID `json:"id"`
	Path    string   `json:"path"`
	Name    string   `json:"name"`
	Classes uint32   `json:"classes"`
}
