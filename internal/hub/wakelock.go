package hub

import "os"

// WakeLock はディスパッチ中のサスペンドを防ぐキープアライブ資源
//
// コンシューマが待機でブロックしている間だけ解放され、それ以外は
// 常に保持される。実装はAcquire/Releaseの多重呼び出しを許容すること
type WakeLock interface {
	Acquire()
	Release()
}

// NopWakeLock は何もしないウェイクロック
type NopWakeLock struct{}

func (NopWakeLock) Acquire() {}
func (NopWakeLock) Release() {}

const (
	sysWakeLockPath   = "/sys/power/wake_lock"
	sysWakeUnlockPath = "/sys/power/wake_unlock"
)

// SysfsWakeLock は/sys/powerインターフェースを使うウェイクロック
// 書き込みに失敗しても黙って続行する（権限のない環境向け）
type SysfsWakeLock struct {
	Name string
}

func (l *SysfsWakeLock) Acquire() {
	_ = os.WriteFile(sysWakeLockPath, []byte(l.Name), 0200)
}

func (l *SysfsWakeLock) Release() {
	_ = os.WriteFile(sysWakeUnlockPath, []byte(l.Name), 0200)
}
