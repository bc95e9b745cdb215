package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const rawBodyContextKey = "rawBody"

// maxBodyBytes bounds how much of a federation payload is buffered for
// digest and signature checks.
const maxBodyBytes = 1 << 20

// captureRawBody buffers the exact request body bytes before anything else
// reads the stream. The peer-trust digest must be computed over the bytes
// as received, not over a re-serialized form.
func captureRawBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
		if err != nil {
			writeErrorCode(c, http.StatusBadRequest, "INVALID_BODY", "could not read request body")
			c.Abort()
			return
		}
		if len(body) > maxBodyBytes {
			writeErrorCode(c, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body too large")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Set(rawBodyContextKey, body)
		c.Next()
	}
}

func rawBody(c *gin.Context) []byte {
	raw, ok := c.Get(rawBodyContextKey)
	if !ok {
		return nil
	}
	body, _ := raw.([]byte)
	return body
}
