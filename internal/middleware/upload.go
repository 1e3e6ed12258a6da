package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/response"
)

// UploadFilter rejects multipart uploads whose declared content type is
// not on the allow-list. An empty list allows everything.
func UploadFilter(allowedMIMEs []string) gin.HandlerFunc {
	if len(allowedMIMEs) == 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	allowed := make(map[string]struct{}, len(allowedMIMEs))
	for _, mime := range allowedMIMEs {
		allowed[mime] = struct{}{}
	}
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			// Missing files are the handler's call to reject.
			c.Next()
			return
		}
		if _, ok := allowed[fileHeader.Header.Get("Content-Type")]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported file type"))
			c.Abort()
			return
		}
		c.Next()
	}
}
