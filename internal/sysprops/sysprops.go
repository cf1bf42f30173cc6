package sysprops

import (
	"fmt"
	"sync"
)

// Store はプロセス内のキー・バリュー型プロパティレジストリ
// キーボードのデバイス名の公開などに使う
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewStore は空のプロパティストアを作成する
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Set はプロパティを設定する。空文字列の設定はクリアを意味する
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Get はプロパティを取得する。未設定なら空文字列を返す
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// Snapshot は現在の全プロパティのコピーを返す
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(map[string]string, len(s.values))
	for k, v := range s.values {
		snapshot[k] = v
	}
	return snapshot
}

// KeyboardDevname はキーボードのデバイス名を公開するプロパティキーを返す
// idにはデバイス識別子（デフォルトキーボードは0）を渡す
func KeyboardDevname(id int32) string {
	return fmt.Sprintf("hw.keyboards.%d.devname", uint32(id))
}
