package keylayout

// 論理キーコードの定数（レイアウト変換後のデバイス非依存コード）
const (
	KeycodeSoftLeft     = 1
	KeycodeSoftRight    = 2
	KeycodeHome         = 3
	KeycodeBack         = 4
	KeycodeCall         = 5
	KeycodeEndCall      = 6
	Keycode0            = 7
	Keycode1            = 8
	Keycode2            = 9
	Keycode3            = 10
	Keycode4            = 11
	Keycode5            = 12
	Keycode6            = 13
	Keycode7            = 14
	Keycode8            = 15
	Keycode9            = 16
	KeycodeStar         = 17
	KeycodePound        = 18
	KeycodeDpadUp       = 19
	KeycodeDpadDown     = 20
	KeycodeDpadLeft     = 21
	KeycodeDpadRight    = 22
	KeycodeDpadCenter   = 23
	KeycodeVolumeUp     = 24
	KeycodeVolumeDown   = 25
	KeycodePower        = 26
	KeycodeCamera       = 27
	KeycodeClear        = 28
	KeycodeA            = 29
	KeycodeB            = 30
	KeycodeC            = 31
	KeycodeD            = 32
	KeycodeE            = 33
	KeycodeF            = 34
	KeycodeG            = 35
	KeycodeH            = 36
	KeycodeI            = 37
	KeycodeJ            = 38
	KeycodeK            = 39
	KeycodeL            = 40
	KeycodeM            = 41
	KeycodeN            = 42
	KeycodeO            = 43
	KeycodeP            = 44
	KeycodeQ            = 45
	KeycodeR            = 46
	KeycodeS            = 47
	KeycodeT            = 48
	KeycodeU            = 49
	KeycodeV            = 50
	KeycodeW            = 51
	KeycodeX            = 52
	KeycodeY            = 53
	KeycodeZ            = 54
	KeycodeComma        = 55
	KeycodePeriod       = 56
	KeycodeAltLeft      = 57
	KeycodeAltRight     = 58
	KeycodeShiftLeft    = 59
	KeycodeShiftRight   = 60
	KeycodeTab          = 61
	KeycodeSpace        = 62
	KeycodeSym          = 63
	KeycodeExplorer     = 64
	KeycodeEnvelope     = 65
	KeycodeEnter        = 66
	KeycodeDel          = 67
	KeycodeGrave        = 68
	KeycodeMinus        = 69
	KeycodeEquals       = 70
	KeycodeLeftBracket  = 71
	KeycodeRightBracket = 72
	KeycodeBackslash    = 73
	KeycodeSemicolon    = 74
	KeycodeApostrophe   = 75
	KeycodeSlash        = 76
	KeycodeAt           = 77
	KeycodeNum          = 78
	KeycodeHeadsetHook  = 79
	KeycodeFocus        = 80
	KeycodePlus         = 81
	KeycodeMenu         = 82
	KeycodeNotification = 83
	KeycodeSearch       = 84
)

// キーの修飾フラグ
const (
	FlagWake        uint32 = 0x01 // このキーでデバイスを起床させる
	FlagWakeDropped uint32 = 0x02 // 起床させるがキー自体は破棄する
	FlagShift       uint32 = 0x04
	FlagCapsLock    uint32 = 0x08
	FlagAlt         uint32 = 0x10
	FlagAltGr       uint32 = 0x20
	FlagMenu        uint32 = 0x40
	FlagLauncher    uint32 = 0x80
)

// keycodeLabels はレイアウトファイルに現れるキーコード名の対応表
var keycodeLabels = map[string]int{
	"SOFT_LEFT":     KeycodeSoftLeft,
	"SOFT_RIGHT":    KeycodeSoftRight,
	"HOME":          KeycodeHome,
	"BACK":          KeycodeBack,
	"CALL":          KeycodeCall,
	"ENDCALL":       KeycodeEndCall,
	"0":             Keycode0,
	"1":             Keycode1,
	"2":             Keycode2,
	"3":             Keycode3,
	"4":             Keycode4,
	"5":             Keycode5,
	"6":             Keycode6,
	"7":             Keycode7,
	"8":             Keycode8,
	"9":             Keycode9,
	"STAR":          KeycodeStar,
	"POUND":         KeycodePound,
	"DPAD_UP":       KeycodeDpadUp,
	"DPAD_DOWN":     KeycodeDpadDown,
	"DPAD_LEFT":     KeycodeDpadLeft,
	"DPAD_RIGHT":    KeycodeDpadRight,
	"DPAD_CENTER":   KeycodeDpadCenter,
	"VOLUME_UP":     KeycodeVolumeUp,
	"VOLUME_DOWN":   KeycodeVolumeDown,
	"POWER":         KeycodePower,
	"CAMERA":        KeycodeCamera,
	"CLEAR":         KeycodeClear,
	"A":             KeycodeA,
	"B":             KeycodeB,
	"C":             KeycodeC,
	"D":             KeycodeD,
	"E":             KeycodeE,
	"F":             KeycodeF,
	"G":             KeycodeG,
	"H":             KeycodeH,
	"I":             KeycodeI,
	"J":             KeycodeJ,
	"K":             KeycodeK,
	"L":             KeycodeL,
	"M":             KeycodeM,
	"N":             KeycodeN,
	"O":             KeycodeO,
	"P":             KeycodeP,
	"Q":             KeycodeQ,
	"R":             KeycodeR,
	"S":             KeycodeS,
	"T":             KeycodeT,
	"U":             KeycodeU,
	"V":             KeycodeV,
	"W":             KeycodeW,
	"X":             KeycodeX,
	"Y":             KeycodeY,
	"Z":             KeycodeZ,
	"COMMA":         KeycodeComma,
	"PERIOD":        KeycodePeriod,
	"ALT_LEFT":      KeycodeAltLeft,
	"ALT_RIGHT":     KeycodeAltRight,
	"SHIFT_LEFT":    KeycodeShiftLeft,
	"SHIFT_RIGHT":   KeycodeShiftRight,
	"TAB":           KeycodeTab,
	"SPACE":         KeycodeSpace,
	"SYM":           KeycodeSym,
	"EXPLORER":      KeycodeExplorer,
	"ENVELOPE":      KeycodeEnvelope,
	"ENTER":         KeycodeEnter,
	"DEL":           KeycodeDel,
	"GRAVE":         KeycodeGrave,
	"MINUS":         KeycodeMinus,
	"EQUALS":        KeycodeEquals,
	"LEFT_BRACKET":  KeycodeLeftBracket,
	"RIGHT_BRACKET": KeycodeRightBracket,
	"BACKSLASH":     KeycodeBackslash,
	"SEMICOLON":     KeycodeSemicolon,
	"APOSTROPHE":    KeycodeApostrophe,
	"SLASH":         KeycodeSlash,
	"AT":            KeycodeAt,
	"NUM":           KeycodeNum,
	"HEADSETHOOK":   KeycodeHeadsetHook,
	"FOCUS":         KeycodeFocus,
	"PLUS":          KeycodePlus,
	"MENU":          KeycodeMenu,
	"NOTIFICATION":  KeycodeNotification,
	"SEARCH":        KeycodeSearch,
}

// flagLabels はレイアウトファイルに現れる修飾フラグ名の対応表
var flagLabels = map[string]uint32{
	"WAKE":         FlagWake,
	"WAKE_DROPPED": FlagWakeDropped,
	"SHIFT":        FlagShift,
	"CAPS_LOCK":    FlagCapsLock,
	"ALT":          FlagAlt,
	"ALT_GR":       FlagAltGr,
	"MENU":         FlagMenu,
	"LAUNCHER":     FlagLauncher,
}
