package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"issue-tracker/internal/apperrors"
	"issue-tracker/internal/attachments"
)

func parseID(raw, msg string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(msg, raw)
	}
	return uint(id), nil
}

// flexID accepts an id sent as a JSON number, a JSON string or a form value.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" {
		s = ""
	}
	*f = flexID(s)
	return nil
}

func (f *flexID) UnmarshalParam(param string) error {
	*f = flexID(param)
	return nil
}

// requestBaseURL is scheme://host of the current request.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}

// storeUpload saves the optional attachment part and returns its stored
// name, or "" when the request carries none. More than one attachment part
// is rejected.
func (h *Handlers) storeUpload(c *gin.Context) (string, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return "", nil
	}
	fh, err := c.FormFile(attachments.FieldName)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.NewValidationError("Invalid upload", err.Error())
	}
	if len(c.Request.MultipartForm.File[attachments.FieldName]) > 1 {
		return "", apperrors.NewValidationError("Only one attachment is allowed")
	}
	return h.files.Store(fh)
}

// discardUpload removes a stored upload whose consuming call failed.
func (h *Handlers) discardUpload(name string) {
	h.files.Remove(name)
}
