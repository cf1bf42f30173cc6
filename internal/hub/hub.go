package hub

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/char5742/input-hub/internal/consts"
	"github.com/char5742/input-hub/internal/sysprops"
)

var defaultLogger = zerolog.New(os.Stdout).With().Timestamp().Str("subsystem", "hub").Logger()

var (
	// ErrClosed はハブが閉じられた後の操作を表すエラー
	ErrClosed = errors.New("ハブは既に閉じられています")
	// ErrConcurrentRead はGetEventの単一コンシューマ契約の違反を表すエラー
	ErrConcurrentRead = errors.New("GetEventを同時に呼び出せるのは1スレッドのみです")
)

// Hub は入力デバイスの検出・分類・イベント多重化を担う中枢
//
// デバイスディレクトリを初回スキャンして認識可能なデバイスをすべて開き、
// 以後の抜き差しはウォッチャが検出してレジストリに反映する。
// イベントはGetEventで1件ずつ取り出す（単一コンシューマ専用）
type Hub struct {
	log zerolog.Logger

	devDir     string
	layoutRoot string

	// レジストリ全体を守るロック。GetEventは待機中これを持たない
	mu      sync.Mutex
	pollFDs []unix.PollFd // pollスロット配列。スロット0はwakeパイプ
	devices []*Device     // pollFDsと並行なデバイス配列（スロット0はnil）
	byID    []idEntry     // 識別子の下位ビットで引く配列
	opening []*Device     // 追加通知待ちのFIFO
	closing []*Device     // 取り外し通知待ちのFIFO

	switches [consts.SwMax + 1]DeviceID // スイッチ番号→所有デバイス識別子（0=未所有）
	excluded []string                   // 除外デバイス名（追記のみ）

	haveDefaultKeyboard bool
	defaultKeyboardID   DeviceID

	props *sysprops.Store
	wake  WakeLock

	watcher *fsnotify.Watcher
	pendMu  sync.Mutex
	pending []fsChange

	wakeR, wakeW int
	done         chan struct{}
	closed       atomic.Bool
	reading      atomic.Bool
}

// idEntry は識別子スロット1つ分の世代番号とデバイス所有権
type idEntry struct {
	seq uint32
	dev *Device
}

// fsChange はウォッチャが検出した未処理のデバイスノード変更
type fsChange struct {
	path    string
	removed bool
}

// Options はHubの構成
type Options struct {
	// DeviceDir は監視するデバイスディレクトリ。既定は/dev/input
	DeviceDir string
	// LayoutRoot はキーレイアウトの探索ルート。
	// 既定はANDROID_ROOT環境変数、無ければ/system
	LayoutRoot string
	// Excluded は開かずに無視するデバイス名
	Excluded []string
	// Props はキーボード名を公開するプロパティストア。nilなら新規作成
	Props *sysprops.Store
	// WakeLock は待機中以外に保持するキープアライブ資源。nilなら何もしない実装
	WakeLock WakeLock
	Logger   *zerolog.Logger
}

// New はハブを作成し、初回のデバイススキャンと監視を開始する
//
// ウォッチャの初期化失敗は致命的ではなく、抜き差し検出なしの
// 静的なデバイス集合で動き続ける
func New(opts Options) (*Hub, error) {
	h := &Hub{
		devDir:     opts.DeviceDir,
		layoutRoot: opts.LayoutRoot,
		excluded:   append([]string(nil), opts.Excluded...),
		props:      opts.Props,
		wake:       opts.WakeLock,
		done:       make(chan struct{}),
	}
	if h.devDir == "" {
		h.devDir = "/dev/input"
	}
	if h.layoutRoot == "" {
		h.layoutRoot = os.Getenv("ANDROID_ROOT")
		if h.layoutRoot == "" {
			h.layoutRoot = "/system"
		}
	}
	if h.props == nil {
		h.props = sysprops.NewStore()
	}
	if h.wake == nil {
		h.wake = NopWakeLock{}
	}
	if opts.Logger != nil {
		h.log = *opts.Logger
	} else {
		h.log = defaultLogger
	}

	// スロット0のwakeパイプ。ウォッチャの通知と明示的な停止の両方に使う
	var pipeFDs [2]int
	if err := unix.Pipe2(pipeFDs[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, err
	}
	h.wakeR, h.wakeW = pipeFDs[0], pipeFDs[1]
	h.pollFDs = []unix.PollFd{{Fd: int32(h.wakeR), Events: unix.POLLIN}}
	h.devices = []*Device{nil}

	h.wake.Acquire()

	if err := h.startWatcher(); err != nil {
		h.log.Warn().Err(err).Str("dir", h.devDir).
			Msg("ディレクトリの監視に失敗しました。抜き差し検出なしで継続します")
	}

	if err := h.scanDir(); err != nil {
		h.log.Warn().Err(err).Str("dir", h.devDir).Msg("デバイスディレクトリのスキャンに失敗しました")
	}

	return h, nil
}

// Close はハブを停止し、開いている記述子をすべて閉じる
// 待機中のGetEvent呼び出しは起床してErrClosedを返す
func (h *Hub) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(h.done)
	if h.watcher != nil {
		h.watcher.Close()
	}
	h.poke()

	h.mu.Lock()
	for _, dev := range h.devices[1:] {
		if dev.fd >= 0 {
			unix.Close(dev.fd)
		}
	}
	h.mu.Unlock()

	h.wake.Release()
	return nil
}

// AddExcludedDevice は開く前に無視するデバイス名を追加する
// 削除はできない。完全一致で比較される
func (h *Hub) AddExcludedDevice(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.excluded = append(h.excluded, name)
}

// Devices は現在開いているデバイスのスナップショットを返す
func (h *Hub) Devices() []DeviceInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	infos := make([]DeviceInfo, 0, len(h.devices)-1)
	for _, dev := range h.devices[1:] {
		infos = append(infos, DeviceInfo{
			ID:      dev.id,
			Path:    dev.path,
			Name:    dev.name,
			Classes: dev.classes,
		})
	}
	return infos
}

// Properties はキーボード名などを公開しているプロパティストアを返す
func (h *Hub) Properties() *sysprops.Store {
	return h.props
}

// poke はwakeパイプに1バイト書き込み、待機中のコンシューマを起床させる
func (h *Hub) poke() {
	if _, err := unix.Write(h.wakeW, []byte{0}); err != nil && err != unix.EAGAIN {
		h.log.Debug().Err(err).Msg("wakeパイプへの書き込みに失敗しました")
	}
}

// drainWake はwakeパイプに溜まったバイトを読み捨てる
func (h *Hub) drainWake() {
	var buf [64]byte
	for {
		n, err := unix.Read(h.wakeR, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}
