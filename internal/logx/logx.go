// 包 logx 是对 zerolog 的薄封装：
// - 支持级别/格式/语言/颜色配置
// - pretty 输出使用中文或英文等级标签（[信息]/[INFO]）
// - 通过 Debugf/Infof/Warnf/Errorf 暴露，业务代码不直接依赖底层实现
package logx

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var current atomic.Pointer[zerolog.Logger]

func init() {
	l := New(os.Stderr, "info", "pretty", "zh-CN", "never")
	current.Store(&l)
}

// Init 根据 level/format/locale/colorMode 初始化全局日志器，输出到 stdout。
func Init(level, format, locale, colorMode string) {
	l := New(os.Stdout, level, format, locale, colorMode)
	current.Store(&l)
}

// New 构造一个独立的 zerolog.Logger：
// - json：原生 JSON 行
// - pretty（默认）：ConsoleWriter + 本地化等级标签，可选彩色
// - text：ConsoleWriter 无颜色、英文标签
func New(w io.Writer, level, format, locale, colorMode string) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	lv := parseLevel(level)
	var out io.Writer
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		out = w
	case "text":
		out = consoleWriter(w, "en", false)
	default:
		if locale == "" {
			locale = "zh-CN"
		}
		out = consoleWriter(w, locale, shouldColor(w, colorMode))
	}
	return zerolog.New(out).Level(lv).With().Timestamp().Logger()
}

func consoleWriter(w io.Writer, locale string, color bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: "2006-01-02 15:04:05",
		FormatLevel: func(i interface{}) string {
			s, _ := i.(string)
			lbl := levelLabel(locale, s)
			if color {
				return colorize(lbl, s)
			}
			return lbl
		},
	}
}

// parseLevel 将字符串级别解析为 zerolog.Level。
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "none", "silent", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// 便捷函数：格式化并按级别输出
func Debugf(format string, v ...any) { current.Load().Debug().Msgf(format, v...) }
func Infof(format string, v ...any)  { current.Load().Info().Msgf(format, v...) }
func Warnf(format string, v ...any)  { current.Load().Warn().Msgf(format, v...) }
func Errorf(format string, v ...any) { current.Load().Error().Msgf(format, v...) }

// levelLabel 根据语言返回等级标签。
func levelLabel(locale, level string) string {
	if strings.HasPrefix(strings.ToLower(locale), "zh") {
		switch level {
		case zerolog.LevelDebugValue:
			return "[调试]"
		case zerolog.LevelInfoValue:
			return "[信息]"
		case zerolog.LevelWarnValue:
			return "[警告]"
		case zerolog.LevelErrorValue:
			return "[错误]"
		}
	}
	if level == "" {
		return "[?]"
	}
	return "[" + strings.ToUpper(level) + "]"
}

// shouldColor 判断是否启用颜色：遵循 LOG_COLOR 与 NO_COLOR。
func shouldColor(w io.Writer, mode string) bool {
	if v := os.Getenv("NO_COLOR"); v != "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true
	case "auto", "":
		// 仅在字符设备上启用彩色输出
		if f, ok := w.(*os.File); ok {
			if fi, err := f.Stat(); err == nil {
				return (fi.Mode() & os.ModeCharDevice) != 0
			}
		}
		return false
	default:
		return false
	}
}

// colorize 按等级包裹 ANSI 颜色码。
func colorize(s, level string) string {
	code := "0"
	switch level {
	case zerolog.LevelDebugValue:
		code = "90"
	case zerolog.LevelInfoValue:
		code = "36"
	case zerolog.LevelWarnValue:
		code = "33"
	case zerolog.LevelErrorValue:
		code = "31"
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
