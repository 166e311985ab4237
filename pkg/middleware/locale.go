package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sirosfoundation/go-site-backend/internal/locale"
)

// LocaleKey is the gin context key holding the negotiated locale
const LocaleKey = "locale"

// LocaleLister reports the locales a site has translations for
type LocaleLister interface {
	Available() []string
}

// Locale negotiates the request locale from the "lang" query parameter or
// Accept-Language against the available locales.
func Locale(locales LocaleLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		available := locales.Available()

		preference := c.GetHeader("Accept-Language")
		if lang := c.Query("lang"); lang != "" {
			preference = lang
		}
		code := locale.Negotiate(preference, available)

		c.Set(LocaleKey, code)
		c.Header("Content-Language", code)
		c.Next()
	}
}

// GetLocale returns the negotiated locale, or the default locale when the
// middleware did not run.
func GetLocale(c *gin.Context) string {
	if code := c.GetString(LocaleKey); code != "" {
		return code
	}
	return locale.DefaultLocale
}
