package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config はアプリケーション全体の設定を表す構造体
type Config struct {
	Input InputConfig `toml:"input"`
	Power PowerConfig `toml:"power"`
	API   APIConfig   `toml:"api"`
}

// InputConfig はデバイス検出まわりの設定
type InputConfig struct {
	// DeviceDir は入力デバイスノードを列挙するディレクトリ
	DeviceDir string `toml:"device_dir"`
	// LayoutRoot はキーレイアウトファイルの探索ルート
	// 空の場合はANDROID_ROOT環境変数、無ければ/systemが使われる
	LayoutRoot string `toml:"layout_root"`
	// ExcludedDevices は開かずに無視するデバイス名（完全一致）
	ExcludedDevices []string `toml:"excluded_devices"`
}

// PowerConfig はキープアライブ資源の設定
type PowerConfig struct {
	// UseWakeLock が真なら/sys/powerのウェイクロックを使う
	UseWakeLock bool `toml:"use_wake_lock"`
	// WakeLockName はウェイクロックの識別名
	WakeLockName string `toml:"wake_lock_name"`
}

// APIConfig はAPIサーバーの設定
type APIConfig struct {
	Port int `toml:"port"`
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			DeviceDir:       "/dev/input",
			LayoutRoot:      "",
			ExcludedDevices: nil,
		},
		Power: PowerConfig{
			UseWakeLock:  false,
			WakeLockName: "KeyEvents",
		},
		API: APIConfig{
			Port: 8080,
		},
	}
}

// GetDefaultConfigDir はデフォルトの設定ディレクトリを返す
func GetDefaultConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "input-hub"), nil
}

// LoadConfig は設定ファイルから設定を読み込む
// ファイルが存在しない場合はデフォルト設定を保存して返す
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveConfig(configPath, config); err != nil {
			return config, err
		}
		return config, nil
	}

	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig は設定をTOMLファイルに保存する
func SaveConfig(configPath string, config *Config) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(config)
}
