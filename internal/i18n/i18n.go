package i18n

import (
	"fmt"
	"strings"

	"github.com/orbit-shop/internal/constants"

	"github.com/gin-gonic/gin"
)

// defaultLocale 兜底语言
const defaultLocale = constants.LocaleEnUS

// ResolveLocale 解析请求语言
// 优先级：query 参数 lang > X-Locale 头 > Accept-Language 头 > 默认语言。
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return defaultLocale
	}
	if locale := normalizeLocale(c.Query("lang")); locale != "" {
		return locale
	}
	if locale := normalizeLocale(c.GetHeader("X-Locale")); locale != "" {
		return locale
	}
	if locale := matchAcceptLanguage(c.GetHeader("Accept-Language")); locale != "" {
		return locale
	}
	return defaultLocale
}

// T 翻译消息 key，未命中时原样返回 key
func T(locale, key string) string {
	return translate(locale, key)
}

// Sprintf 翻译带参数的消息 key
func Sprintf(locale, key string, args ...interface{}) string {
	format := translate(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func translate(locale, key string) string {
	if messages, ok := catalogs[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if locale != defaultLocale {
		if msg, ok := catalogs[defaultLocale][key]; ok {
			return msg
		}
	}
	return key
}

func normalizeLocale(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	for _, locale := range constants.SupportedLocales {
		if strings.EqualFold(trimmed, locale) {
			return locale
		}
	}
	return ""
}

func matchAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		if locale := normalizeLocale(tag); locale != "" {
			return locale
		}
		base := strings.SplitN(tag, "-", 2)[0]
		for _, locale := range constants.SupportedLocales {
			if strings.EqualFold(base, strings.SplitN(locale, "-", 2)[0]) {
				return locale
			}
		}
	}
	return ""
}
