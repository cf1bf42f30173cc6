package hub

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/char5742/input-hub/internal/bitset"
	"github.com/char5742/input-hub/internal/consts"
	"github.com/char5742/input-hub/internal/keylayout"
	"github.com/char5742/input-hub/internal/sysprops"
)

const testLayout = `
key 16  Q
key 103 DPAD_UP
key 108 DPAD_DOWN
key 105 DPAD_LEFT
key 106 DPAD_RIGHT
key 28  DPAD_CENTER
key 115 VOLUME_UP WAKE
`

// writeLayoutFile はテスト用のレイアウトルートに.klファイルを置く
func writeLayoutFile(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, "usr", "keylayout")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// newTestHub は実デバイスなしで動くハブを作る
// デバイスディレクトリは空のテンポラリディレクトリを使う
func newTestHub(t *testing.T, excluded ...string) *Hub {
	t.Helper()
	layoutRoot := t.TempDir()
	writeLayoutFile(t, layoutRoot, "qwerty.kl", testLayout)
	writeLayoutFile(t, layoutRoot, "tuttle-keypad.kl", testLayout)

	h, err := New(Options{
		DeviceDir:  t.TempDir(),
		LayoutRoot: layoutRoot,
		Excluded:   excluded,
		Props:      sysprops.NewStore(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

// addFakeDevice は与えたビットマップでデバイスを直接登録する
func addFakeDevice(h *Hub, path, name string, keyBits, relBits, absBits, swBits bitset.Bits) (DeviceID, error) {
	return h.addDevice(path, name, -1, keyBits, relBits, absBits, swBits)
}

func addFakeKeyboard(h *Hub, path, name string) (DeviceID, error) {
	return addFakeDevice(h, path, name, keyBitsOf(16, 103, 108, 105, 106, 28), relBitsOf(), absBitsOf(), swBitsOf())
}

func TestSlotReuseAndGeneration(t *testing.T) {
	h := newTestHub(t)

	id1, err := addFakeKeyboard(h, "/dev/input/event0", "first keyboard")
	require.NoError(t, err)

	seen := map[DeviceID]bool{id1: true}
	prev := id1
	for i := 0; i < 5; i++ {
		require.NoError(t, h.removeDevice("/dev/input/event0"))

		id, err := addFakeKeyboard(h, "/dev/input/event0", "first keyboard")
		require.NoError(t, err)

		// スロットは再利用されるが、世代番号の違いで識別子は毎回変わる
		assert.Equal(t, prev.slot(), id.slot())
		assert.False(t, seen[id], "識別子が再利用されてはいけない")
		assert.NotZero(t, id)
		seen[id] = true
		prev = id
	}

	// 閉じる前に得た識別子は、同スロットの再利用後も無効のまま
	_, ok := h.DeviceName(id1)
	assert.False(t, ok)
	assert.Equal(t, uint32(0), h.DeviceClasses(id1))

	_, ok = h.DeviceName(prev)
	assert.True(t, ok)
}

func TestRemoveUnknownPath(t *testing.T) {
	h := newTestHub(t)
	assert.Error(t, h.removeDevice("/dev/input/event9"))
}

func TestExcludedDevice(t *testing.T) {
	h := newTestHub(t, "foo-device")

	_, err := addFakeKeyboard(h, "/dev/input/event0", "foo-device")
	assert.Error(t, err)
	assert.Empty(t, h.Devices())

	// 完全一致のみが除外される
	id, err := addFakeKeyboard(h, "/dev/input/event1", "foo-device2")
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Len(t, h.Devices(), 1)
}

func TestAddExcludedDevice(t *testing.T) {
	h := newTestHub(t)
	h.AddExcludedDevice("bar-device")

	_, err := addFakeKeyboard(h, "/dev/input/event0", "bar-device")
	assert.Error(t, err)
}

func TestUnclassifiableDeviceRejected(t *testing.T) {
	h := newTestHub(t)

	_, err := addFakeDevice(h, "/dev/input/event0", "mystery", keyBitsOf(), relBitsOf(), absBitsOf(), swBitsOf())
	assert.Error(t, err)
	assert.Empty(t, h.Devices())
}

func TestSwitchOwnership(t *testing.T) {
	h := newTestHub(t)

	idA, err := addFakeDevice(h, "/dev/input/event0", "switch-a",
		keyBitsOf(16), relBitsOf(), absBitsOf(), swBitsOf(5))
	require.NoError(t, err)
	assert.Equal(t, idA, h.switches[5])

	// 既に所有されているスイッチは後続デバイスに移らない
	_, err = addFakeDevice(h, "/dev/input/event1", "switch-b",
		keyBitsOf(16), relBitsOf(), absBitsOf(), swBitsOf(5))
	require.NoError(t, err)
	assert.Equal(t, idA, h.switches[5])

	// 所有デバイスを閉じると解放される
	require.NoError(t, h.removeDevice("/dev/input/event0"))
	assert.Equal(t, DeviceID(0), h.switches[5])

	// 次に同じスイッチを報告したデバイスが新しい所有者になる
	idC, err := addFakeDevice(h, "/dev/input/event2", "switch-c",
		keyBitsOf(16), relBitsOf(), absBitsOf(), swBitsOf(5))
	require.NoError(t, err)
	assert.Equal(t, idC, h.switches[5])
}

func TestHeadsetClass(t *testing.T) {
	h := newTestHub(t)

	id, err := addFakeDevice(h, "/dev/input/event0", "headset-jack",
		keyBitsOf(), relBitsOf(), absBitsOf(), swBitsOf(consts.SwHeadphoneInsert))
	require.NoError(t, err)
	assert.NotZero(t, h.DeviceClasses(id)&ClassHeadset)
}

func TestDefaultKeyboardAssignment(t *testing.T) {
	h := newTestHub(t)

	// 専用レイアウトのない一般キーボードはデフォルトに指名されない
	idPlain, err := addFakeKeyboard(h, "/dev/input/event0", "usb keyboard")
	require.NoError(t, err)
	assert.False(t, h.haveDefaultKeyboard)
	// ただし識別子0の参照先としては使われる
	assert.Equal(t, idPlain, h.defaultKeyboardID)

	// 専用レイアウトを持つ-keypadキーボードがデフォルトに指名される
	idKeypad, err := addFakeKeyboard(h, "/dev/input/event1", "tuttle-keypad")
	require.NoError(t, err)
	assert.True(t, h.haveDefaultKeyboard)
	assert.Equal(t, idKeypad, h.defaultKeyboardID)
	assert.Equal(t, "tuttle-keypad", h.Properties().Get(sysprops.KeyboardDevname(0)))

	// 識別子0での参照はデフォルトキーボードに解決される
	name, ok := h.DeviceName(0)
	require.True(t, ok)
	assert.Equal(t, "tuttle-keypad", name)

	// 指名は一度きり。別の候補が現れても変わらない
	_, err = addFakeKeyboard(h, "/dev/input/event2", "second-keypad")
	require.NoError(t, err)
	assert.Equal(t, idKeypad, h.defaultKeyboardID)
}

func TestDefaultKeyboardRelease(t *testing.T) {
	h := newTestHub(t)

	_, err := addFakeKeyboard(h, "/dev/input/event0", "tuttle-keypad")
	require.NoError(t, err)
	require.True(t, h.haveDefaultKeyboard)

	// デフォルトキーボードを閉じると指名が解除され、プロパティも消える
	require.NoError(t, h.removeDevice("/dev/input/event0"))
	assert.False(t, h.haveDefaultKeyboard)
	assert.Equal(t, DeviceID(0), h.defaultKeyboardID)
	assert.Equal(t, "", h.Properties().Get(sysprops.KeyboardDevname(0)))

	// 次の候補が開くまで識別子0は解決できない
	_, ok := h.DeviceName(0)
	assert.False(t, ok)

	// 次の条件を満たすキーボードが開けば再指名される
	id2, err := addFakeKeyboard(h, "/dev/input/event1", "tuttle-keypad")
	require.NoError(t, err)
	assert.True(t, h.haveDefaultKeyboard)
	assert.Equal(t, id2, h.defaultKeyboardID)
}

func TestKeyboardCapabilities(t *testing.T) {
	h := newTestHub(t)

	// Qと方向キーの両方のスキャンコードを持つキーボード
	id, err := addFakeKeyboard(h, "/dev/input/event0", "full keyboard")
	require.NoError(t, err)
	classes := h.DeviceClasses(id)
	assert.NotZero(t, classes&ClassAlphaKey)
	assert.NotZero(t, classes&ClassDpad)

	// Qのスキャンコードを持たないキーボード
	id2, err := addFakeDevice(h, "/dev/input/event1", "numpad",
		keyBitsOf(115), relBitsOf(), absBitsOf(), swBitsOf())
	require.NoError(t, err)
	classes = h.DeviceClasses(id2)
	assert.Zero(t, classes&ClassAlphaKey)
	assert.Zero(t, classes&ClassDpad)
}

func TestKeyboardProperties(t *testing.T) {
	h := newTestHub(t)

	id, err := addFakeKeyboard(h, "/dev/input/event0", "usb keyboard")
	require.NoError(t, err)
	key := sysprops.KeyboardDevname(int32(id))
	assert.Equal(t, "usb keyboard", h.Properties().Get(key))

	// 取り外しでプロパティはクリアされる
	require.NoError(t, h.removeDevice("/dev/input/event0"))
	assert.Equal(t, "", h.Properties().Get(key))
}

func TestScancodeToKeycodeFallback(t *testing.T) {
	h := newTestHub(t)

	// デフォルトキーボードを先に用意
	_, err := addFakeKeyboard(h, "/dev/input/event0", "tuttle-keypad")
	require.NoError(t, err)

	// 空の変換表を持つ外部ソース
	extID, err := h.AddSource("ext", devNullFD(t), nil)
	require.NoError(t, err)

	// 自分の表で引けなければデフォルトキーボードの表に落ちる
	keycode, _, ok := h.ScancodeToKeycode(extID, 16)
	require.True(t, ok)
	assert.Equal(t, keylayout.KeycodeQ, keycode)

	// どちらの表にもないスキャンコード
	_, _, ok = h.ScancodeToKeycode(extID, 999)
	assert.False(t, ok)
}

func TestHasKeys(t *testing.T) {
	h := newTestHub(t)

	_, err := addFakeDevice(h, "/dev/input/event0", "partial keyboard",
		keyBitsOf(16), relBitsOf(), absBitsOf(), swBitsOf())
	require.NoError(t, err)

	got := h.HasKeys([]int{keylayout.KeycodeQ, keylayout.KeycodeDpadUp})
	assert.Equal(t, []bool{true, false}, got)

	// 別デバイスが不足分を補えばtrueになる
	_, err = addFakeDevice(h, "/dev/input/event1", "dpad pad",
		keyBitsOf(103), relBitsOf(), absBitsOf(), swBitsOf())
	require.NoError(t, err)

	got = h.HasKeys([]int{keylayout.KeycodeQ, keylayout.KeycodeDpadUp})
	assert.Equal(t, []bool{true, true}, got)
}

func TestQuerySentinelsOnStaleID(t *testing.T) {
	h := newTestHub(t)

	id, err := addFakeKeyboard(h, "/dev/input/event0", "usb keyboard")
	require.NoError(t, err)
	require.NoError(t, h.removeDevice("/dev/input/event0"))

	assert.Equal(t, -1, h.ScancodeState(id, 16))
	assert.Equal(t, -1, h.KeycodeState(id, keylayout.KeycodeQ))
	assert.Equal(t, -1, h.DeviceSwitchState(id, 0))
	_, ok := h.AbsoluteInfo(id, consts.AbsX)
	assert.False(t, ok)
	_, _, ok = h.ScancodeToKeycode(id, 16)
	assert.False(t, ok)
}
