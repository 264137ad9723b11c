package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"issue-tracker/internal/apperrors"
)

// renderOK writes {"status":"ok", ...fields}.
func renderOK(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"status": "ok"}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

func renderData(c *gin.Context, status int, data any) {
	renderOK(c, status, gin.H{"data": data})
}

func renderMessage(c *gin.Context, msg string) {
	renderOK(c, http.StatusOK, gin.H{"message": msg})
}

// renderError maps err onto the error envelope. Anything that is not an
// AppError is a store or server failure: it is logged and reported with a
// fixed message.
func (h *Handlers) renderError(c *gin.Context, op string, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		if appErr.Code >= http.StatusInternalServerError {
			h.log.Error(op+" failed", "path", c.Request.URL.Path, "error", err)
		}
		c.JSON(appErr.Code, gin.H{"status": "error", "message": appErr.Message})
		return
	}

	h.log.Error(op+" failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
}

// sendFile streams a stored attachment. A file that cannot be read yields an
// empty 500.
func (h *Handlers) sendFile(c *gin.Context, path string) {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		err = errors.New("attachment path is a directory")
	}
	if err != nil {
		h.log.Error("error sending attachment", "path", path, "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.File(path)
}
