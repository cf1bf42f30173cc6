package keylayout

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Map はスキャンコードから論理キーコードへの変換表
// キーレイアウトファイル(.kl)から読み込む
type Map struct {
	entries map[int]entry
}

type entry struct {
	keycode int
	flags   uint32
}

// New は空の変換表を作成する
func New() *Map {
	return &Map{entries: make(map[int]entry)}
}

// Load はキーレイアウトファイルを読み込んで変換表を差し替える
//
// 書式は1行につき「key <スキャンコード> <キーコード名> [フラグ名...]」で、
// #以降はコメントとして無視される
func (m *Map) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("キーレイアウトファイルを開くのに失敗しました: %w", err)
	}
	defer f.Close()

	entries := make(map[int]entry)

	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] != "key" || len(fields) < 3 {
			return fmt.Errorf("%s:%d: 解釈できない行です: %q", path, lineno, line)
		}

		scancode, err := parseInt(fields[1])
		if err != nil {
			return fmt.Errorf("%s:%d: スキャンコードが不正です: %w", path, lineno, err)
		}

		keycode, ok := keycodeLabels[fields[2]]
		if !ok {
			// ラベル表にない場合は数値として解釈する
			keycode, err = parseInt(fields[2])
			if err != nil {
				return fmt.Errorf("%s:%d: 未知のキーコード名です: %q", path, lineno, fields[2])
			}
		}

		var flags uint32
		for _, name := range fields[3:] {
			flag, ok := flagLabels[name]
			if !ok {
				return fmt.Errorf("%s:%d: 未知のフラグ名です: %q", path, lineno, name)
			}
			flags |= flag
		}

		entries[scancode] = entry{keycode: keycode, flags: flags}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("キーレイアウトファイルの読み込みに失敗しました: %w", err)
	}

	m.entries = entries
	return nil
}

// Map はスキャンコードを論理キーコードと修飾フラグに変換する
// 対応する項目がない場合はok=falseを返す
func (m *Map) Map(scancode int) (keycode int, flags uint32, ok bool) {
	e, ok := m.entries[scancode]
	if !ok {
		return 0, 0, false
	}
	return e.keycode, e.flags, true
}

// FindScancodes は指定キーコードに対応する全スキャンコードを返す
func (m *Map) FindScancodes(keycode int) []int {
	var scancodes []int
	for sc, e := range m.entries {
		if e.keycode == keycode {
			scancodes = append(scancodes, sc)
		}
	}
	return scancodes
}

// Size は変換表の項目数を返す
func (m *Map) Size() int {
	return len(m.entries)
}

func parseInt(s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	return int(v), err
}
