package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/merchware/creditledger/internal/pkg/signature"
)

// VerifySignature rejects webhook requests whose payload signature does
// not validate. The request body is consumed for verification and
// restored for downstream handlers.
func VerifySignature(verifier *signature.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(signature.Header)
		if header == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(payload))

		if err := verifier.Verify(header, payload, time.Now()); err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
