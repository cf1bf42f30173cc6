package hub

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// startWatcher はデバイスディレクトリの監視を開始する
//
// fsnotifyのイベントはウォッチャゴルーチンが未処理キューに積み、
// wakeパイプ（pollスロット0）経由でコンシューマに通知する。
// レジストリの書き換え自体はコンシューマスレッドだけが行う
func (h *Hub) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(h.devDir); err != nil {
		watcher.Close()
		return err
	}
	h.watcher = watcher
	go h.watchLoop()
	return nil
}

func (h *Hub) watchLoop() {
	for {
		select {
		case <-h.done:
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			h.pendMu.Lock()
			h.pending = append(h.pending, fsChange{
				path:    event.Name,
				removed: event.Op&fsnotify.Create == 0,
			})
			h.pendMu.Unlock()
			h.poke()

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.log.Warn().Err(err).Msg("ファイルシステム監視エラー")
		}
	}
}

// applyPendingChanges はウォッチャが積んだノード変更をレジストリに反映する
// コンシューマスレッドからのみ呼ばれる
func (h *Hub) applyPendingChanges() {
	h.pendMu.Lock()
	changes := h.pending
	h.pending = nil
	h.pendMu.Unlock()

	for _, change := range changes {
		if change.removed {
			if err := h.removeDevice(change.path); err != nil {
				// スキャン段階で登録されなかったノードの削除は正常系
				h.log.Debug().Err(err).Str("path", change.path).Msg("取り外し対象が見つかりません")
			}
		} else {
			if err := h.openDevice(change.path); err != nil {
				h.log.Debug().Err(err).Str("path", change.path).Msg("デバイスを開けませんでした")
			}
		}
	}
}
