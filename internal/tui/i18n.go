package tui

// i18n provides a simple internationalization system for the TUI.
// Supported locales: "en" (English, default), "zh" (Chinese).

var currentLocale = "en"

// SetLocale changes the active locale. Unknown locales are ignored.
func SetLocale(locale string) {
	if _, ok := locales[locale]; ok {
		currentLocale = locale
	}
}

// CurrentLocale returns the active locale code.
func CurrentLocale() string {
	return currentLocale
}

// ToggleLocale switches between en and zh.
func ToggleLocale() {
	if currentLocale == "zh" {
		currentLocale = "en"
	} else {
		currentLocale = "zh"
	}
}

// T returns the translated string for the given key.
func T(key string) string {
	if m, ok := locales[currentLocale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := enStrings[key]; ok {
		return v
	}
	return key
}

var locales = map[string]map[string]string{
	"zh": zhStrings,
	"en": enStrings,
}

var zhTabNames = []string{"授权", "日志"}
var enTabNames = []string{"Authorizations", "Logs"}

// TabNames returns tab names in the current locale.
func TabNames() []string {
	if currentLocale == "zh" {
		return zhTabNames
	}
	return enTabNames
}

var zhStrings = map[string]string{
	"loading":          "加载中...",
	"initializing_tui": "初始化中...",
	"status_left":      " ghauthz",
	"status_right":     "Tab: 切换 • L: 语言 • q/Ctrl+C: 退出 ",

	"authz_title":       "🔑 OAuth 授权",
	"authz_help":        " [r] 刷新 • [o] 打开 GitHub 设置 • [y] 复制 • [↑↓] 滚动",
	"authz_cancel_help": "Esc/c: 取消",
	"authz_cancelled":   "已取消",
	"authz_idle":        "按 r 加载授权列表",
	"authz_busy":        "请求进行中",
	"copied":            "已复制到剪贴板",
	"copy_failed":       "复制失败: %s",
	"open_failed":       "无法打开浏览器: %s",
	"opened":            "已在浏览器中打开 %s",

	"logs_title":   "📋 日志",
	"logs_help":    " [a] 自动滚动 • [c] 清空 • [↑↓] 滚动",
	"logs_waiting": "等待日志输出...",
	"logs_lines":   "行数",
	"logs_auto":    "● 自动滚动",
	"logs_paused":  "○ 已暂停",
}

var enStrings = map[string]string{
	"loading":          "Loading...",
	"initializing_tui": "Initializing...",
	"status_left":      " ghauthz",
	"status_right":     "Tab: switch • L: lang • q/Ctrl+C: quit ",

	"authz_title":       "🔑 OAuth Authorizations",
	"authz_help":        " [r] Refresh • [o] Open GitHub settings • [y] Copy • [↑↓] Scroll",
	"authz_cancel_help": "Esc/c: cancel",
	"authz_cancelled":   "Cancelled",
	"authz_idle":        "Press r to load authorizations",
	"authz_busy":        "A request is already in flight",
	"copied":            "Copied to clipboard",
	"copy_failed":       "Copy failed: %s",
	"open_failed":       "Could not open browser: %s",
	"opened":            "Opened %s in browser",

	"logs_title":   "📋 Logs",
	"logs_help":    " [a] Auto-scroll • [c] Clear • [↑↓] Scroll",
	"logs_waiting": "Waiting for log output...",
	"logs_lines":   "Lines",
	"logs_auto":    "● AUTO-SCROLL",
	"logs_paused":  "○ PAUSED",
}
