package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/char5742/input-hub/internal/hub"
)

// ルートの設定
func (s *Server) setupRoutes(router *http.ServeMux) {
	// 設定関連のエンドポイント
	router.HandleFunc("GET /api/config", s.handleGetConfig)

	// デバイス関連のエンドポイント
	router.HandleFunc("GET /api/devices", s.handleGetDevices)
	router.HandleFunc("GET /api/devices/{id}/keys/{scancode}", s.handleScancodeState)
	router.HandleFunc("GET /api/devices/{id}/keycodes/{keycode}", s.handleKeycodeState)
	router.HandleFunc("GET /api/devices/{id}/abs/{axis}", s.handleAbsoluteInfo)
	router.HandleFunc("GET /api/devices/{id}/switches/{sw}", s.handleDeviceSwitchState)
	router.HandleFunc("GET /api/switches/{sw}", s.handleSwitchState)
	router.HandleFunc("POST /api/excluded", s.handleAddExcluded)

	// プロパティ関連のエンドポイント
	router.HandleFunc("GET /api/properties", s.handleGetProperties)

	// ヘルスチェック用エンドポイント
	router.HandleFunc("GET /api/health", s.handleHealthCheck)
}

// パス引数を整数として取り出す
func pathInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(r.PathValue(name))
}

// 設定取得ハンドラ
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg)
}

// デバイス一覧取得ハンドラ
func (s *Server) handleGetDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Devices())
}

// スキャンコード押下状態ハンドラ
func (s *Server) handleScancodeState(w http.ResponseWriter, r *http.Request) {
	id, err1 := pathInt(r, "id")
	scancode, err2 := pathInt(r, "scancode")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "パスパラメータの解析に失敗しました")
		return
	}

	state := s.hub.ScancodeState(hub.DeviceID(id), scancode)
	writeJSON(w, http.StatusOK, map[string]int{"state": state})
}

// キーコード押下状態ハンドラ
func (s *Server) handleKeycodeState(w http.ResponseWriter, r *http.Request) {
	id, err1 := pathInt(r, "id")
	keycode, err2 := pathInt(r, "keycode")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "パスパラメータの解析に失敗しました")
		return
	}

	state := s.hub.KeycodeState(hub.DeviceID(id), keycode)
	writeJSON(w, http.StatusOK, map[string]int{"state": state})
}

// 絶対軸情報ハンドラ
func (s *Server) handleAbsoluteInfo(w http.ResponseWriter, r *http.Request) {
	id, err1 := pathInt(r, "id")
	axis, err2 := pathInt(r, "axis")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "パスパラメータの解析に失敗しました")
		return
	}

	info, ok := s.hub.AbsoluteInfo(hub.DeviceID(id), axis)
	if !ok {
		writeError(w, http.StatusNotFound, "絶対軸情報を取得できませんでした")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// デバイス指定のスイッチ状態ハンドラ
func (s *Server) handleDeviceSwitchState(w http.ResponseWriter, r *http.Request) {
	id, err1 := pathInt(r, "id")
	sw, err2 := pathInt(r, "sw")
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "パスパラメータの解析に失敗しました")
		return
	}

	state := s.hub.DeviceSwitchState(hub.DeviceID(id), sw)
	writeJSON(w, http.StatusOK, map[string]int{"state": state})
}

// 所有テーブル経由のスイッチ状態ハンドラ
func (s *Server) handleSwitchState(w http.ResponseWriter, r *http.Request) {
	sw, err := pathInt(r, "sw")
	if err != nil {
		writeError(w, http.StatusBadRequest, "パスパラメータの解析に失敗しました")
		return
	}

	state := s.hub.SwitchState(sw)
	writeJSON(w, http.StatusOK, map[string]int{"state": state})
}

// 除外デバイス追加ハンドラ
func (s *Server) handleAddExcluded(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Name == "" {
		writeError(w, http.StatusBadRequest, "リクエストの解析に失敗しました")
		return
	}

	s.hub.AddExcludedDevice(request.Name)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// プロパティ一覧取得ハンドラ
func (s *Server) handleGetProperties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.hub.Properties().Snapshot())
}

// ヘルスチェックハンドラ
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
