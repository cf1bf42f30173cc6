package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndTest(t *testing.T) {
	b := New(0x2ff + 1)

	assert.False(t, b.Test(0))
	b.Set(0)
	assert.True(t, b.Test(0))

	b.Set(0x2ff)
	assert.True(t, b.Test(0x2ff))

	// 範囲外は常にfalse
	assert.False(t, b.Test(-1))
	assert.False(t, b.Test(b.Len()))
}

func TestClear(t *testing.T) {
	b := New(64)
	b.Set(12)
	b.Clear(12)
	assert.False(t, b.Test(12))
}

func TestAnyInRange(t *testing.T) {
	b := New(0x300)
	b.Set(0x110) // BTN_LEFT相当

	assert.False(t, b.AnyInRange(0, 0x100))
	assert.True(t, b.AnyInRange(0x100, 0x120))
	assert.True(t, b.AnyInRange(0, b.Len()))

	// 範囲の境界は半開区間
	assert.False(t, b.AnyInRange(0x111, 0x120))
	assert.True(t, b.AnyInRange(0x110, 0x111))
}

func TestFromBytes(t *testing.T) {
	raw := []byte{0x01, 0x80}
	b := FromBytes(raw)

	assert.True(t, b.Test(0))
	assert.True(t, b.Test(15))
	assert.False(t, b.Test(8))
	assert.Equal(t, 16, b.Len())
}

func TestClone(t *testing.T) {
	b := New(16)
	b.Set(3)

	dup := b.Clone()
	b.Clear(3)

	assert.True(t, dup.Test(3))
	assert.False(t, b.Test(3))

	var zero Bits
	assert.True(t, zero.Clone().IsZero())
}
