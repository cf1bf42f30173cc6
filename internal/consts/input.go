package consts

// イベントタイプの定数（input-event-codes.hから）
const (
	EvSyn = 0x00 // 同期イベント
	EvKey = 0x01 // キーイベント
	EvRel = 0x02 // 相対座標イベント
	EvAbs = 0x03 // 絶対座標イベント
	EvMsc = 0x04 // その他のイベント
	EvSw  = 0x05 // スイッチイベント
)

// 各イベントコードの最大値
const (
	KeyMax = 0x2ff // キーコードの最大値
	RelMax = 0x0f  // 相対軸の最大値
	AbsMax = 0x3f  // 絶対軸の最大値
	SwMax  = 0x0f  // スイッチ番号の最大値
)

// キー・ボタンコードの定数
const (
	BtnMisc  = 0x100 // ここから先は標準キーボードの範囲外
	BtnMouse = 0x110 // 汎用マウスボタン（BTN_LEFTと同値）
	BtnLeft  = 0x110 // マウス左ボタン
	BtnRight = 0x111 // マウス右ボタン
	BtnTouch = 0x14a // 画面タッチの検出
)

// 相対軸の定数
const (
	RelX = 0x00 // X軸の相対移動
	RelY = 0x01 // Y軸の相対移動
)

// 絶対軸の定数
const (
	AbsX            = 0x00 // X軸の絶対座標
	AbsY            = 0x01 // Y軸の絶対座標
	AbsMtTouchMajor = 0x30 // タッチ領域の長径
	AbsMtPositionX  = 0x35 // マルチタッチのX座標
	AbsMtPositionY  = 0x36 // マルチタッチのY座標
)

// スイッチ番号の定数
const (
	SwHeadphoneInsert = 0x02 // ヘッドホン挿入スイッチ
)

// input_event構造体のサイズ（64bit環境）
const InputEventSize = 24
