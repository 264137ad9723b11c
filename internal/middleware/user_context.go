package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	ViewerHeader = "X-User-Id"
	viewerKey    = "ViewerID"
)

// InjectViewer resolves the caller's user id from the X-User-Id header or,
// when the header is absent, from the login session. The raw value is kept
// so handlers can reject malformed ids themselves.
func InjectViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := strings.TrimSpace(c.GetHeader(ViewerHeader))
		if viewer == "" {
			if uid, ok := sessions.Default(c).Get("user_id").(uint); ok && uid > 0 {
				viewer = strconv.FormatUint(uint64(uid), 10)
			}
		}
		if viewer != "" {
			c.Set(viewerKey, viewer)
		}

		c.Next()
	}
}

// Viewer returns the id stored by InjectViewer, or "".
func Viewer(c *gin.Context) string {
	return c.GetString(viewerKey)
}
