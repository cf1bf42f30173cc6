package sysprops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	s := NewStore()

	assert.Equal(t, "", s.Get("hw.keyboards.0.devname"))

	s.Set("hw.keyboards.0.devname", "tuttle-keypad")
	assert.Equal(t, "tuttle-keypad", s.Get("hw.keyboards.0.devname"))

	// 空文字列での設定はクリア
	s.Set("hw.keyboards.0.devname", "")
	assert.Equal(t, "", s.Get("hw.keyboards.0.devname"))
}

func TestSnapshot(t *testing.T) {
	s := NewStore()
	s.Set("a", "1")
	s.Set("b", "2")

	snap := s.Snapshot()
	s.Set("a", "changed")

	assert.Equal(t, "1", snap["a"])
	assert.Equal(t, "2", snap["b"])
}

func TestKeyboardDevname(t *testing.T) {
	assert.Equal(t, "hw.keyboards.0.devname", KeyboardDevname(0))
	// 識別子は符号なしで整形される
	assert.Equal(t, "hw.keyboards.65537.devname", KeyboardDevname(0x10001))
}
