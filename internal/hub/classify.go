package hub

import (
	"github.com/char5742/input-hub/internal/bitset"
	"github.com/char5742/input-hub/internal/consts"
)

// Classify はデバイスが報告した能力ビットマップからデバイスクラスを決定する
//
// 同じビットマップに対して常に同じ結果を返す純粋な判定で、判定順序は次のとおり:
//  1. キーボード判定: 標準キーとファンクションキーの範囲（BTN_MISC未満）のみを
//     走査する。マルチメディアボタンしか持たないコントローラを
//     キーボードと誤認しないための範囲制限
//  2. ポインタ判定: 汎用マウスボタンと相対X/Y軸を持つ場合、左右ボタンが
//     揃っていればマウス、揃っていなければトラックボール
//  3. タッチ判定: タッチ長径とマルチタッチX/Y座標が揃っていれば
//     マルチタッチ式タッチスクリーン。そうでなく、タッチボタンと
//     絶対X/Y軸を持つ場合は単一タッチ式。先に一致した方のみが採用される
func Classify(keyBits, relBits, absBits bitset.Bits) uint32 {
	var classes uint32

	if keyBits.AnyInRange(0, consts.BtnMisc) {
		classes |= ClassKeyboard
	}

	if keyBits.Test(consts.BtnMouse) &&
		relBits.Test(consts.RelX) && relBits.Test(consts.RelY) {
		if keyBits.Test(consts.BtnLeft) && keyBits.Test(consts.BtnRight) {
			classes |= ClassMouse
		} else {
			classes |= ClassTrackball
		}
	}

	if absBits.Test(consts.AbsMtTouchMajor) &&
		absBits.Test(consts.AbsMtPositionX) && absBits.Test(consts.AbsMtPositionY) {
		classes |= ClassTouchscreen | ClassTouchscreenMT
	} else if keyBits.Test(consts.BtnTouch) &&
		absBits.Test(consts.AbsX) && absBits.Test(consts.AbsY) {
		classes |= ClassTouchscreen
	}

	return classes
}
