package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/browser"

	"github.com/char5742/input-hub/internal/api"
	"github.com/char5742/input-hub/internal/config"
	"github.com/char5742/input-hub/internal/hub"
	"github.com/char5742/input-hub/internal/sysprops"
)

func main() {
	// コマンドライン引数の解析
	useApi := flag.Bool("api", false, "APIサーバーも起動します")
	configPath := flag.String("config", "", "設定ファイルのパス (指定しない場合はデフォルトパスを使用)")
	deviceDir := flag.String("dir", "", "デバイスディレクトリ (設定より優先)")
	port := flag.Int("port", 0, "APIサーバーのポート番号 (設定より優先)")
	open := flag.Bool("open", false, "起動後にブラウザでヘルスチェックを開きます")
	flag.Parse()

	// デフォルト設定ファイルパスの設定
	defaultConfigPath := ""
	configDir, err := config.GetDefaultConfigDir()
	if err == nil {
		defaultConfigPath = filepath.Join(configDir, "config.toml")
	}

	// 設定ファイルパスの決定
	cfgPath := defaultConfigPath
	if *configPath != "" {
		cfgPath = *configPath
	}

	// 設定ファイルの読み込み
	var cfg *config.Config
	if cfgPath != "" {
		cfg, err = config.LoadConfig(cfgPath)
		if err != nil {
			fmt.Printf("設定ファイルの読み込みに失敗しました: %v\nデフォルト設定を使用します\n", err)
			cfg = config.DefaultConfig()
		} else {
			fmt.Printf("設定ファイルを読み込みました: %s\n", cfgPath)
		}
	} else {
		cfg = config.DefaultConfig()
	}
	if *deviceDir != "" {
		cfg.Input.DeviceDir = *deviceDir
	}
	if *port != 0 {
		cfg.API.Port = *port
	}

	// ウェイクロックの選択
	var wakeLock hub.WakeLock
	if cfg.Power.UseWakeLock {
		wakeLock = &hub.SysfsWakeLock{Name: cfg.Power.WakeLockName}
	}

	// ハブの作成
	h, err := hub.New(hub.Options{
		DeviceDir:  cfg.Input.DeviceDir,
		LayoutRoot: cfg.Input.LayoutRoot,
		Excluded:   cfg.Input.ExcludedDevices,
		Props:      sysprops.NewStore(),
		WakeLock:   wakeLock,
	})
	if err != nil {
		log.Fatalf("ハブの起動に失敗しました: %v", err)
	}

	// シグナルハンドラの設定
	handleSignals(h)

	// APIサーバーの起動
	if *useApi {
		server := api.NewServer(h, cfg, cfg.API.Port)
		go func() {
			if err := server.Start(); err != nil {
				log.Printf("APIサーバーが停止しました: %v", err)
			}
		}()
		if *open {
			url := fmt.Sprintf("http://localhost:%d/api/health", cfg.API.Port)
			if err := browser.OpenURL(url); err != nil {
				log.Printf("ブラウザを開けませんでした: %v", err)
			}
		}
	}

	// イベントの読み取りループ
	runDump(h)
}

// runDump はイベントを1件ずつ取り出して標準出力に流す
func runDump(h *hub.Hub) {
	for {
		ev, err := h.GetEvent()
		if err != nil {
			fmt.Printf("イベントの取得を終了します: %v\n", err)
			return
		}
		switch ev.Type {
		case hub.DeviceAdded:
			name, _ := h.DeviceName(ev.DeviceID)
			fmt.Printf("[added]   id=%d name=%q classes=%#x\n",
				ev.DeviceID, name, h.DeviceClasses(ev.DeviceID))
		case hub.DeviceRemoved:
			fmt.Printf("[removed] id=%d\n", ev.DeviceID)
		default:
			fmt.Printf("id=%d type=%d scan=%d key=%d flags=%#x value=%d\n",
				ev.DeviceID, ev.Type, ev.ScanCode, ev.KeyCode, ev.Flags, ev.Value)
		}
	}
}

func handleSignals(h *hub.Hub) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("シャットダウンします...")
		h.Close()
	}()
}
