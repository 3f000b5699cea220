package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/kreslo/kreslo-backend/internal/locale"
	"golang.org/x/text/language"
)

// requestLocale picks the response locale: ?locale= first, then the best
// supported Accept-Language entry, then fallback.
func requestLocale(c *gin.Context, fallback string) string {
	if l, ok := locale.Parse(c.Query("locale")); ok {
		return l.String()
	}
	if header := c.GetHeader("Accept-Language"); header != "" {
		tags, _, err := language.ParseAcceptLanguage(header)
		if err == nil {
			for _, tag := range tags {
				if l, ok := locale.Parse(tag.String()); ok {
					return l.String()
				}
			}
		}
	}
	return fallback
}
