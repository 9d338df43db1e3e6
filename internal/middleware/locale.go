package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jrjohn/arcana-onboarding-go/internal/i18n"
)

const (
	// LocaleKey is the gin context key for the negotiated locale
	LocaleKey = "locale"
	// LocaleQueryParam overrides Accept-Language when present
	LocaleQueryParam = "lang"
)

// Locale negotiates the request locale from ?lang= or Accept-Language
func Locale(bundle *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := ""
		if lang := c.Query(LocaleQueryParam); lang != "" && bundle.Supported(lang) {
			locale = lang
		} else {
			locale = bundle.Match(c.GetHeader("Accept-Language"))
		}

		c.Set(LocaleKey, locale)
		c.Header("Content-Language", locale)
		c.Next()
	}
}

// GetLocale retrieves the negotiated locale, or "" when the middleware did not run
func GetLocale(c *gin.Context) string {
	if v, ok := c.Get(LocaleKey); ok {
		if locale, ok := v.(string); ok {
			return locale
		}
	}
	return ""
}
