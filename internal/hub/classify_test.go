package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/char5742/input-hub/internal/bitset"
	"github.com/char5742/input-hub/internal/consts"
)

func keyBitsOf(codes ...int) bitset.Bits {
	b := bitset.New(consts.KeyMax + 1)
	for _, c := range codes {
		b.Set(c)
	}
	return b
}

func relBitsOf(codes ...int) bitset.Bits {
	b := bitset.New(consts.RelMax + 1)
	for _, c := range codes {
		b.Set(c)
	}
	return b
}

func absBitsOf(codes ...int) bitset.Bits {
	b := bitset.New(consts.AbsMax + 1)
	for _, c := range codes {
		b.Set(c)
	}
	return b
}

func swBitsOf(codes ...int) bitset.Bits {
	b := bitset.New(consts.SwMax + 1)
	for _, c := range codes {
		b.Set(c)
	}
	return b
}

func TestClassifyKeyboard(t *testing.T) {
	// 標準キー範囲のビットはキーボード
	assert.Equal(t, ClassKeyboard, Classify(keyBitsOf(16), relBitsOf(), absBitsOf()))

	// BTN_MISC以降のボタンしか持たないデバイスはキーボードではない
	assert.Equal(t, uint32(0), Classify(keyBitsOf(consts.BtnMisc), relBitsOf(), absBitsOf()))
	assert.Equal(t, uint32(0), Classify(keyBitsOf(0x120), relBitsOf(), absBitsOf()))

	// 範囲の上限ぎりぎりのキーは含まれる
	assert.Equal(t, ClassKeyboard, Classify(keyBitsOf(consts.BtnMisc-1), relBitsOf(), absBitsOf()))
}

func TestClassifyPointer(t *testing.T) {
	// 左右ボタンと相対XYが揃えばマウス
	got := Classify(keyBitsOf(consts.BtnLeft, consts.BtnRight), relBitsOf(consts.RelX, consts.RelY), absBitsOf())
	assert.Equal(t, ClassMouse, got)

	// 左ボタンのみならトラックボール
	got = Classify(keyBitsOf(consts.BtnLeft), relBitsOf(consts.RelX, consts.RelY), absBitsOf())
	assert.Equal(t, ClassTrackball, got)

	// 相対軸が片方しかなければポインタ扱いしない
	got = Classify(keyBitsOf(consts.BtnLeft, consts.BtnRight), relBitsOf(consts.RelX), absBitsOf())
	assert.Equal(t, uint32(0), got)
}

func TestClassifyTouchscreen(t *testing.T) {
	// タッチボタン+絶対XYは単一タッチ式
	got := Classify(keyBitsOf(consts.BtnTouch), relBitsOf(), absBitsOf(consts.AbsX, consts.AbsY))
	assert.Equal(t, ClassTouchscreen, got)

	// マルチタッチ軸が揃えばマルチタッチ式
	got = Classify(keyBitsOf(), relBitsOf(),
		absBitsOf(consts.AbsMtTouchMajor, consts.AbsMtPositionX, consts.AbsMtPositionY))
	assert.Equal(t, ClassTouchscreen|ClassTouchscreenMT, got)

	// 両方の条件を満たす場合はマルチタッチ判定が優先される
	got = Classify(keyBitsOf(consts.BtnTouch), relBitsOf(),
		absBitsOf(consts.AbsX, consts.AbsY,
			consts.AbsMtTouchMajor, consts.AbsMtPositionX, consts.AbsMtPositionY))
	assert.Equal(t, ClassTouchscreen|ClassTouchscreenMT, got)

	// タッチ長径が欠けるとマルチタッチにはならない
	got = Classify(keyBitsOf(consts.BtnTouch), relBitsOf(),
		absBitsOf(consts.AbsX, consts.AbsY, consts.AbsMtPositionX, consts.AbsMtPositionY))
	assert.Equal(t, ClassTouchscreen, got)
}

func TestClassifyDeterministic(t *testing.T) {
	// 分類はビットマップだけで決まる純粋な関数
	keyBits := keyBitsOf(16, consts.BtnTouch)
	absBits := absBitsOf(consts.AbsX, consts.AbsY)
	first := Classify(keyBits, relBitsOf(), absBits)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(keyBits, relBitsOf(), absBits))
	}
	assert.Equal(t, ClassKeyboard|ClassTouchscreen, first)
}

func TestClassifyNothing(t *testing.T) {
	assert.Equal(t, uint32(0), Classify(keyBitsOf(), relBitsOf(), absBitsOf()))
}
