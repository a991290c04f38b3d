package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// DefaultCompressMinLength is the smallest body worth compressing.
const DefaultCompressMinLength = 1024

// Compress brotli-encodes response bodies of at least minLength bytes for
// clients that send "Accept-Encoding: br". Shorter bodies are written as is.
func Compress(quality, minLength int) gin.HandlerFunc {
	if quality < brotli.BestSpeed || quality > brotli.BestCompression {
		quality = brotli.DefaultCompression
	}
	if minLength <= 0 {
		minLength = DefaultCompressMinLength
	}

	return func(c *gin.Context) {
		if skipCompression(c) || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		bw := &brotliWriter{
			ResponseWriter: c.Writer,
			quality:        quality,
			minLength:      minLength,
		}
		c.Writer = bw

		defer func() {
			if err := bw.finish(); err != nil {
				_ = c.Error(err)
			}
		}()

		c.Next()
	}
}

// brotliWriter buffers the start of a body until it knows whether the body
// is long enough to compress.
type brotliWriter struct {
	gin.ResponseWriter
	quality   int
	minLength int

	buf         []byte
	br          *brotli.Writer
	passthrough bool
}

func (w *brotliWriter) Write(data []byte) (int, error) {
	switch {
	case w.br != nil:
		return w.br.Write(data)
	case w.passthrough:
		return w.ResponseWriter.Write(data)
	}

	w.buf = append(w.buf, data...)
	if len(w.buf) < w.minLength {
		return len(data), nil
	}

	w.ResponseWriter.Header().Set("Content-Encoding", "br")
	w.ResponseWriter.Header().Del("Content-Length")
	w.br = brotli.NewWriterLevel(w.ResponseWriter, w.quality)

	if _, err := w.br.Write(w.buf); err != nil {
		return 0, err
	}
	w.buf = nil
	return len(data), nil
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush sends whatever is buffered. A body flushed before reaching
// minLength is sent uncompressed from then on.
func (w *brotliWriter) Flush() {
	if w.br != nil {
		_ = w.br.Flush()
	} else {
		_ = w.drain()
	}
	w.ResponseWriter.Flush()
}

func (w *brotliWriter) finish() error {
	if w.br != nil {
		return w.br.Close()
	}
	return w.drain()
}

func (w *brotliWriter) drain() error {
	w.passthrough = true
	if len(w.buf) == 0 {
		return nil
	}
	_, err := w.ResponseWriter.Write(w.buf)
	w.buf = nil
	return err
}

// skipCompression is true for protocols that break when the response is
// wrapped or buffered.
func skipCompression(c *gin.Context) bool {
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.EqualFold(name, "br") {
			return true
		}
	}
	return false
}
