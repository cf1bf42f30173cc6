package hub

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/char5742/input-hub/internal/bitset"
	"github.com/char5742/input-hub/internal/consts"
	"github.com/char5742/input-hub/internal/keylayout"
	"github.com/char5742/input-hub/internal/sysprops"
	"github.com/char5742/input-hub/internal/utils"
)

const deviceNameSize = 80

// defaultLayoutName は専用レイアウトが見つからないときの代替ファイル名
const defaultLayoutName = "qwerty.kl"

// deviceLocked は識別子からデバイス記録を引く。h.muを保持して呼ぶこと
//
// 識別子0はデフォルトキーボードに差し替える。世代番号まで一致しない
// 識別子（閉じたデバイスの古い識別子など）はnilを返す
func (h *Hub) deviceLocked(id DeviceID) *Device {
	if id == 0 {
		id = h.defaultKeyboardID
		if id == 0 {
			return nil
		}
	}
	slot := id.slot()
	if slot >= len(h.byID) {
		return nil
	}
	dev := h.byID[slot].dev
	if dev == nil || dev.id != id {
		return nil
	}
	return dev
}

// deviceByFDLocked は記述子からデバイス記録を引く。h.muを保持して呼ぶこと
func (h *Hub) deviceByFDLocked(fd int) *Device {
	for _, dev := range h.devices[1:] {
		if dev.fd == fd {
			return dev
		}
	}
	return nil
}

// allocSlotLocked は最小の空きスロットを確保して世代番号を進め、
// 新しい識別子を返す。世代番号はラップし、0にはならない
func (h *Hub) allocSlotLocked() DeviceID {
	slot := 0
	for slot < len(h.byID) {
		if h.byID[slot].dev == nil {
			break
		}
		slot++
	}
	if slot >= len(h.byID) {
		h.byID = append(h.byID, idEntry{})
	}

	e := &h.byID[slot]
	e.seq = (e.seq + 1<<seqShift) & seqMask
	if e.seq == 0 {
		e.seq = 1 << seqShift
	}
	return DeviceID(int32(slot) | int32(e.seq))
}

func (h *Hub) isExcludedLocked(name string) bool {
	for _, excluded := range h.excluded {
		if name == excluded {
			return true
		}
	}
	return false
}

// addDevice は能力検査済みのデバイスをレジストリに登録する
//
// 除外リスト照合、分類、スイッチ所有権の主張、キーボードの後処理を行い、
// どのクラスにも該当しないデバイスは記述子を閉じて登録しない。
// 登録されたデバイスは追加通知キューに積まれる
func (h *Hub) addDevice(path, name string, fd int, keyBits, relBits, absBits, swBits bitset.Bits) (DeviceID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.isExcludedLocked(name) {
		if fd >= 0 {
			unix.Close(fd)
		}
		h.log.Info().Str("path", path).Str("name", name).Msg("除外リストに一致したデバイスを無視します")
		return 0, fmt.Errorf("デバイスは除外されています: %s", name)
	}

	id := h.allocSlotLocked()
	dev := newDevice(id, path, name, fd)
	dev.classes = Classify(keyBits, relBits, absBits)

	if dev.classes&ClassKeyboard != 0 {
		// 能力問い合わせ用にキービットマップを複製して保持する
		dev.keyBits = keyBits.Clone()
	}

	// このデバイスが報告するスイッチのうち、未所有のものの所有権を取る
	for sw := 0; sw <= consts.SwMax; sw++ {
		if swBits.Test(sw) && h.switches[sw] == 0 {
			h.switches[sw] = id
		}
	}
	if h.switches[consts.SwHeadphoneInsert] == id {
		dev.classes |= ClassHeadset
	}

	if dev.classes&ClassKeyboard != 0 {
		h.finishKeyboardLocked(dev)
	}

	if dev.classes == 0 {
		h.log.Debug().Str("path", path).Str("name", name).Msg("どのクラスにも該当しないデバイスを破棄します")
		if fd >= 0 {
			unix.Close(fd)
		}
		return 0, fmt.Errorf("デバイスを分類できません: %s", path)
	}

	h.byID[id.slot()].dev = dev
	h.devices = append(h.devices, dev)
	h.pollFDs = append(h.pollFDs, unix.PollFd{Fd: int32(fd), Events: unix.POLLIN})
	h.opening = append(h.opening, dev)

	h.log.Info().
		Str("path", path).Str("name", name).
		Int32("id", int32(id)).Int("fd", fd).
		Uint32("classes", dev.classes).
		Msg("新しいデバイスを追加しました")

	// 待機中のコンシューマにpollセットの再構築を促す
	h.poke()
	return id, nil
}

// finishKeyboardLocked はキーボードと分類されたデバイスの後処理を行う
//
// デバイス名からキーレイアウトファイルを解決して読み込み、条件を満たす
// 最初のキーボードをデフォルトキーボードに指名し、アルファベット入力と
// 方向キーの能力を判定する
func (h *Hub) finishKeyboardLocked(dev *Device) {
	// 空白をアンダースコアに置き換えてレイアウトファイル名を作る
	base := strings.ReplaceAll(dev.name, " ", "_")
	layoutPath := filepath.Join(h.layoutRoot, "usr", "keylayout", base+".kl")
	defaultKeymap := false
	if _, err := os.Stat(layoutPath); err != nil {
		layoutPath = filepath.Join(h.layoutRoot, "usr", "keylayout", defaultLayoutName)
		defaultKeymap = true
	}
	if err := dev.layout.Load(layoutPath); err != nil {
		h.log.Warn().Err(err).Str("layout", layoutPath).Str("name", dev.name).
			Msg("キーレイアウトの読み込みに失敗しました")
	}

	if !h.haveDefaultKeyboard && !defaultKeymap && strings.Contains(dev.name, "-keypad") {
		// 組み込みキーパッドの命名規則に一致する専用レイアウト付きの
		// 最初のキーボードが、識別子0で参照されるデフォルトキーボードになる
		h.haveDefaultKeyboard = true
		h.defaultKeyboardID = dev.id
		h.props.Set(sysprops.KeyboardDevname(0), dev.name)
	} else if h.defaultKeyboardID == 0 {
		h.defaultKeyboardID = dev.id
	}
	h.props.Set(sysprops.KeyboardDevname(int32(dev.id)), dev.name)

	// Qキーの変換が引けるかどうかでアルファベット入力可能かを安価に判定する
	if dev.hasKeycode(keylayout.KeycodeQ) {
		dev.classes |= ClassAlphaKey
	}

	if dev.hasKeycode(keylayout.KeycodeDpadUp) &&
		dev.hasKeycode(keylayout.KeycodeDpadDown) &&
		dev.hasKeycode(keylayout.KeycodeDpadLeft) &&
		dev.hasKeycode(keylayout.KeycodeDpadRight) &&
		dev.hasKeycode(keylayout.KeycodeDpadCenter) {
		dev.classes |= ClassDpad
	}

	h.log.Info().
		Int32("id", int32(dev.id)).Str("name", dev.name).
		Str("layout", layoutPath).Bool("default_keymap", defaultKeymap).
		Msg("新しいキーボードを認識しました")
}

// removeDevice はパスの一致するデバイスをレジストリから外す
//
// 記述子を閉じてpoll配列を詰め、保持していたスイッチ所有権を解放し、
// 取り外し通知キューに積む。見つからない場合はエラーを返すが致命的ではない
func (h *Hub) removeDevice(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := 1; i < len(h.devices); i++ {
		dev := h.devices[i]
		if dev.path != path {
			continue
		}

		h.log.Info().
			Str("path", path).Str("name", dev.name).
			Int32("id", int32(dev.id)).Uint32("classes", dev.classes).
			Msg("デバイスを取り外します")

		h.byID[dev.id.slot()].dev = nil
		if dev.fd >= 0 {
			unix.Close(dev.fd)
		}
		h.devices = append(h.devices[:i], h.devices[i+1:]...)
		h.pollFDs = append(h.pollFDs[:i], h.pollFDs[i+1:]...)

		for sw := range h.switches {
			if h.switches[sw] == dev.id {
				h.switches[sw] = 0
			}
		}

		if dev.id == h.defaultKeyboardID {
			h.log.Warn().Str("path", path).Int32("id", int32(dev.id)).
				Msg("デフォルトキーボードが取り外されます")
			dev.wasDefault = true
			h.haveDefaultKeyboard = false
			h.defaultKeyboardID = 0
			h.props.Set(sysprops.KeyboardDevname(0), "")
		}
		h.props.Set(sysprops.KeyboardDevname(int32(dev.id)), "")

		// 追加通知がまだ出ていないデバイスは通知せずに破棄する
		// （コンシューマの知らない識別子の取り外し通知を出さないため）
		for j, pending := range h.opening {
			if pending == dev {
				h.opening = append(h.opening[:j], h.opening[j+1:]...)
				h.poke()
				return nil
			}
		}

		h.closing = append(h.closing, dev)
		h.poke()
		return nil
	}

	return fmt.Errorf("取り外すデバイスが見つかりません: %s", path)
}

// scanDir はデバイスディレクトリを1回だけ走査して各ノードを開く
// 再帰はしない。個々のノードの失敗はスキャン全体を止めない
func (h *Hub) scanDir() error {
	entries, err := os.ReadDir(h.devDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := h.openDevice(filepath.Join(h.devDir, entry.Name())); err != nil {
			// 能力検査で落ちたノードはここで握りつぶす
			h.log.Debug().Err(err).Msg("デバイスを開けませんでした")
		}
	}
	return nil
}

// openDevice はデバイスノードを開き、能力を調べてレジストリに登録する
func (h *Hub) openDevice(path string) error {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("デバイスを開くのに失敗しました %s: %w", path, err)
	}

	var version int32
	if err := utils.IOCtl(fd, consts.EVIOCGVersion(), unsafe.Pointer(&version)); err != nil {
		unix.Close(fd)
		return fmt.Errorf("ドライバのバージョンを取得できません %s: %w", path, err)
	}
	var devID struct {
		Bustype uint16
		Vendor  uint16
		Product uint16
		Version uint16
	}
	if err := utils.IOCtl(fd, consts.EVIOCGID(), unsafe.Pointer(&devID)); err != nil {
		unix.Close(fd)
		return fmt.Errorf("デバイスIDを取得できません %s: %w", path, err)
	}

	name, err := utils.IOCtlString(fd, consts.EVIOCGName(deviceNameSize), deviceNameSize)
	if err != nil {
		name = ""
	}

	// 除外リストとの照合は能力の取得より先に行う
	h.mu.Lock()
	excluded := h.isExcludedLocked(name)
	h.mu.Unlock()
	if excluded {
		h.log.Info().Str("path", path).Str("name", name).Msg("除外リストに一致したデバイスを無視します")
		unix.Close(fd)
		return nil
	}

	// 物理的な位置と固有IDは取得できないデバイスもある
	phys, _ := utils.IOCtlString(fd, consts.EVIOCGPhys(deviceNameSize), deviceNameSize)
	uniq, _ := utils.IOCtlString(fd, consts.EVIOCGUniq(deviceNameSize), deviceNameSize)
	h.log.Debug().
		Str("path", path).Str("name", name).
		Str("phys", phys).Str("uniq", uniq).
		Uint16("vendor", devID.Vendor).Uint16("product", devID.Product).
		Int32("version", version).
		Msg("デバイスを調査します")

	keyBits := bitset.New(consts.KeyMax + 1)
	relBits := bitset.New(consts.RelMax + 1)
	absBits := bitset.New(consts.AbsMax + 1)
	swBits := bitset.New(consts.SwMax + 1)
	_ = utils.IOCtl(fd, consts.EVIOCGBit(consts.EvKey, len(keyBits.Bytes())), unsafe.Pointer(&keyBits.Bytes()[0]))
	_ = utils.IOCtl(fd, consts.EVIOCGBit(consts.EvRel, len(relBits.Bytes())), unsafe.Pointer(&relBits.Bytes()[0]))
	_ = utils.IOCtl(fd, consts.EVIOCGBit(consts.EvAbs, len(absBits.Bytes())), unsafe.Pointer(&absBits.Bytes()[0]))
	_ = utils.IOCtl(fd, consts.EVIOCGBit(consts.EvSw, len(swBits.Bytes())), unsafe.Pointer(&swBits.Bytes()[0]))

	_, err = h.addDevice(path, name, fd, keyBits, relBits, absBits, swBits)
	return err
}

// AddSource は/dev/input以外の入力ソースの記述子をpollセットに組み込む
//
// 記述子はinput_event形式のレコードを生成すること。通常のデバイスと同じ
// 優先順位でイベントが取り出される。layoutがnilの場合は空の変換表を使う
func (h *Hub) AddSource(name string, fd int, layout *keylayout.Map) (DeviceID, error) {
	if fd < 0 {
		return 0, fmt.Errorf("不正な記述子です: %d", fd)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.allocSlotLocked()
	dev := newDevice(id, "external:"+name, name, fd)
	dev.classes = ClassExternal
	if layout != nil {
		dev.layout = layout
	}

	h.byID[id.slot()].dev = dev
	h.devices = append(h.devices, dev)
	h.pollFDs = append(h.pollFDs, unix.PollFd{Fd: int32(fd), Events: unix.POLLIN})
	h.opening = append(h.opening, dev)

	h.log.Info().Str("name", name).Int32("id", int32(id)).Msg("外部イベントソースを追加しました")
	h.poke()
	return id, nil
}
