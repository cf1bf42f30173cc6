package hub

import (
	"encoding/binary"
	"time"

	"golang.org/x/sys/unix"

	"github.com/char5742/input-hub/internal/consts"
)

// pollRetryDelay は待機の失敗が連続したときの再試行間隔
// エラーループの暴走を防ぐための唯一の再試行ポリシー
const pollRetryDelay = 100 * time.Millisecond

// Event はGetEventが返す正規化済みイベント
//
// Typeはevdevのイベント種別か、合成イベント（DeviceAdded / DeviceRemoved）。
// キーイベントではScanCodeがデバイス固有の生コード、KeyCodeがレイアウト
// 変換後の論理コード。キー以外のイベントではKeyCodeに生コードが入る。
// DeviceIDが0のイベントはデフォルトキーボードのもの
type Event struct {
	When     time.Time
	DeviceID DeviceID
	Type     int32
	ScanCode int32
	KeyCode  int32
	Flags    uint32
	Value    int32
}

// GetEvent は正規化済みイベントを1件返すまでブロックする
//
// 同時に呼び出せるのは1スレッドのみ。違反はErrConcurrentReadになる。
// 取り外し通知、追加通知、生イベントの順で必ず報告される。
// ハブが閉じられるとErrClosedを返す
func (h *Hub) GetEvent() (Event, error) {
	if !h.reading.CompareAndSwap(false, true) {
		return Event{}, ErrConcurrentRead
	}
	defer h.reading.Store(false)

	for {
		if h.closed.Load() {
			// Closeは自分のReleaseを済ませているので、ここで保持している
			// 可能性のあるロックも返してから抜ける（多重Releaseは契約内）
			h.wake.Release()
			return Event{}, ErrClosed
		}

		// まず未通知の取り外し・追加を報告しきる
		if ev, ok := h.drainPendingDevices(); ok {
			return ev, nil
		}

		h.mu.Lock()
		fds := make([]unix.PollFd, len(h.pollFDs))
		copy(fds, h.pollFDs)
		h.mu.Unlock()

		// 待機中だけキープアライブ資源を手放す
		h.wake.Release()
		n, err := unix.Poll(fds, -1)
		h.wake.Acquire()

		if h.closed.Load() {
			// 再取得したロックを保持したまま抜けるとサスペンドを妨げ続ける
			h.wake.Release()
			return Event{}, ErrClosed
		}
		if err != nil || n <= 0 {
			if err == unix.EINTR {
				continue
			}
			h.log.Warn().Err(err).Msg("pollに失敗しました")
			time.Sleep(pollRetryDelay)
			continue
		}

		// スロット1以降のデバイスを順に調べ、最初に読めたイベントを返す
		for i := 1; i < len(fds); i++ {
			if fds[i].Revents&unix.POLLIN == 0 {
				continue
			}
			if ev, ok := h.readDeviceEvent(int(fds[i].Fd)); ok {
				return ev, nil
			}
		}

		// ウォッチャ（スロット0）はレジストリを書き換えるため、
		// デバイス配列の走査が終わってから処理する
		if fds[0].Revents&unix.POLLIN != 0 {
			h.drainWake()
			h.applyPendingChanges()
		}
	}
}

// drainPendingDevices は取り外し・追加の通知キューの先頭を1件報告する
// 取り外しが常に追加より先に出る
func (h *Hub) drainPendingDevices() (Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.closing) > 0 {
		dev := h.closing[0]
		h.closing = h.closing[1:]
		id := dev.id
		if dev.wasDefault {
			id = 0
		}
		h.log.Debug().Int32("id", int32(dev.id)).Str("path", dev.path).
			Msg("デバイスの取り外しを報告します")
		// ここで記録の所有権はコンシューマに渡り、記録は破棄される
		return Event{When: time.Now(), DeviceID: id, Type: DeviceRemoved}, true
	}

	if len(h.opening) > 0 {
		dev := h.opening[0]
		h.opening = h.opening[1:]
		id := dev.id
		if id == h.defaultKeyboardID {
			id = 0
		}
		h.log.Debug().Int32("id", int32(dev.id)).Str("path", dev.path).
			Msg("デバイスの追加を報告します")
		return Event{When: time.Now(), DeviceID: id, Type: DeviceAdded}, true
	}

	return Event{}, false
}

// readDeviceEvent は記述子から固定長のinput_eventレコードを1件読んで変換する
//
// 期待サイズと異なる読み込みは記録してこの周期をスキップするだけで、
// 切断の扱いはしない。切断はディレクトリ監視経由でのみ検出される
func (h *Hub) readDeviceEvent(fd int) (Event, bool) {
	var buf [consts.InputEventSize]byte
	n, err := unix.Read(fd, buf[:])
	if n != consts.InputEventSize {
		if err != nil {
			if err != unix.EAGAIN {
				h.log.Warn().Err(err).Int("fd", fd).Msg("イベントを読み取れませんでした")
			}
		} else {
			h.log.Error().Int("fd", fd).Int("size", n).Msg("イベントのサイズが不正です")
		}
		return Event{}, false
	}

	sec := int64(binary.LittleEndian.Uint64(buf[0:8]))
	usec := int64(binary.LittleEndian.Uint64(buf[8:16]))
	typ := binary.LittleEndian.Uint16(buf[16:18])
	code := binary.LittleEndian.Uint16(buf[18:20])
	value := int32(binary.LittleEndian.Uint32(buf[20:24]))

	h.mu.Lock()
	defer h.mu.Unlock()

	dev := h.deviceByFDLocked(fd)
	if dev == nil {
		// pollと読み込みの間に取り外されたデバイス
		return Event{}, false
	}

	ev := Event{
		When:     time.Unix(sec, usec*1000),
		DeviceID: dev.id,
		Type:     int32(typ),
		ScanCode: int32(code),
		Value:    value,
	}
	if dev.id == h.defaultKeyboardID {
		ev.DeviceID = 0
	}

	if typ == consts.EvKey {
		// 変換に失敗してもイベント自体は失敗にせず、両方0のまま返す
		if keycode, flags, ok := dev.layout.Map(int(code)); ok {
			ev.KeyCode = int32(keycode)
			ev.Flags = flags
		}
	} else {
		ev.KeyCode = int32(code)
	}

	return ev, true
}
