package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// CompressionConfig holds configuration for response compression
type CompressionConfig struct {
	MinSize          int      // Minimum response size to compress (bytes)
	CompressionLevel int      // Gzip compression level (1-9, 9 is best compression)
	ContentTypes     []string // Content types to compress
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize:          1024,
		CompressionLevel: gzip.DefaultCompression,
		ContentTypes: []string{
			"application/json",
			"text/plain",
			"text/html",
			"text/css",
			"application/javascript",
		},
	}
}

// CompressionMiddleware gzips responses for clients that accept it
type CompressionMiddleware struct {
	config CompressionConfig
	stats  *CompressionStats
	pool   sync.Pool
}

// NewCompressionMiddleware creates a new compression middleware
func NewCompressionMiddleware(config CompressionConfig) *CompressionMiddleware {
	if config.CompressionLevel < gzip.HuffmanOnly || config.CompressionLevel > gzip.BestCompression {
		config.CompressionLevel = gzip.DefaultCompression
	}
	cm := &CompressionMiddleware{
		config: config,
		stats:  NewCompressionStats(),
	}
	cm.pool.New = func() interface{} {
		gz, _ := gzip.NewWriterLevel(io.Discard, cm.config.CompressionLevel)
		return gz
	}
	return cm
}

// Handler returns the gin middleware. Bodies are buffered up to MinSize;
// smaller responses are sent as-is.
func (cm *CompressionMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodHead || !clientAcceptsGzip(c.Request) {
			c.Next()
			return
		}

		gzw := &gzipResponseWriter{ResponseWriter: c.Writer, cm: cm}
		c.Writer = gzw
		defer gzw.finish()

		c.Next()
	}
}

// GetStats returns compression statistics
func (cm *CompressionMiddleware) GetStats() map[string]interface{} {
	return cm.stats.GetStats()
}

func clientAcceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

func (cm *CompressionMiddleware) shouldCompress(contentType string) bool {
	for _, ct := range cm.config.ContentTypes {
		if strings.Contains(contentType, ct) {
			return true
		}
	}
	return false
}

// gzipResponseWriter holds the body back until it is known to be large
// enough, then either starts gzip or passes the bytes through.
type gzipResponseWriter struct {
	gin.ResponseWriter
	cm *CompressionMiddleware

	buf        bytes.Buffer
	gz         *gzip.Writer
	counter    countingWriter
	passthru   bool
	rawWritten int64
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func (gzw *gzipResponseWriter) Write(data []byte) (int, error) {
	gzw.rawWritten += int64(len(data))

	switch {
	case gzw.gz != nil:
		return gzw.gz.Write(data)
	case gzw.passthru:
		return gzw.ResponseWriter.Write(data)
	}

	// headers already on the wire cannot gain Content-Encoding
	if gzw.ResponseWriter.Written() {
		gzw.passthru = true
		return gzw.ResponseWriter.Write(data)
	}

	gzw.buf.Write(data)
	if gzw.buf.Len() >= gzw.cm.config.MinSize {
		if err := gzw.start(); err != nil {
			return 0, err
		}
	}
	return len(data), nil
}

func (gzw *gzipResponseWriter) WriteString(s string) (int, error) {
	return gzw.Write([]byte(s))
}

// Written reports buffered bytes as written so later middleware does not
// write a second body.
func (gzw *gzipResponseWriter) Written() bool {
	return gzw.buf.Len() > 0 || gzw.gz != nil || gzw.ResponseWriter.Written()
}

func (gzw *gzipResponseWriter) start() error {
	h := gzw.Header()
	if h.Get("Content-Encoding") != "" || !gzw.cm.shouldCompress(h.Get("Content-Type")) {
		gzw.passthru = true
		return gzw.flushBuffer()
	}

	h.Set("Content-Encoding", "gzip")
	h.Add("Vary", "Accept-Encoding")
	h.Del("Content-Length")

	gzw.counter = countingWriter{w: gzw.ResponseWriter}
	gz := gzw.cm.pool.Get().(*gzip.Writer)
	gz.Reset(&gzw.counter)
	gzw.gz = gz

	_, err := gzw.gz.Write(gzw.buf.Bytes())
	gzw.buf.Reset()
	return err
}

func (gzw *gzipResponseWriter) flushBuffer() error {
	if gzw.buf.Len() == 0 {
		return nil
	}
	_, err := gzw.ResponseWriter.Write(gzw.buf.Bytes())
	gzw.buf.Reset()
	return err
}

// Flush forces compression to start so streamed bytes reach the client
func (gzw *gzipResponseWriter) Flush() {
	if gzw.gz == nil && !gzw.passthru && gzw.buf.Len() > 0 {
		_ = gzw.start()
	}
	if gzw.gz != nil {
		_ = gzw.gz.Flush()
	}
	gzw.ResponseWriter.Flush()
}

func (gzw *gzipResponseWriter) finish() {
	if gzw.gz != nil {
		_ = gzw.gz.Close()
		gzw.gz.Reset(io.Discard)
		gzw.cm.pool.Put(gzw.gz)
		gzw.cm.stats.RecordRequest(gzw.rawWritten, gzw.counter.n, true)
		return
	}
	_ = gzw.flushBuffer()
	gzw.cm.stats.RecordRequest(gzw.rawWritten, gzw.rawWritten, false)
}

// CompressionStats tracks compression statistics
type CompressionStats struct {
	TotalRequests      int64
	CompressedRequests int64
	TotalBytes         int64
	CompressedBytes    int64
	mutex              sync.RWMutex
}

// NewCompressionStats creates new compression statistics
func NewCompressionStats() *CompressionStats {
	return &CompressionStats{}
}

// RecordRequest records a request's compression stats
func (cs *CompressionStats) RecordRequest(originalSize, compressedSize int64, compressed bool) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	cs.TotalRequests++
	cs.TotalBytes += originalSize

	if compressed {
		cs.CompressedRequests++
		cs.CompressedBytes += compressedSize
	} else {
		cs.CompressedBytes += originalSize
	}
}

// GetStats returns current compression statistics
func (cs *CompressionStats) GetStats() map[string]interface{} {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	compressionRatio := float64(1)
	if cs.TotalBytes > 0 {
		compressionRatio = float64(cs.CompressedBytes) / float64(cs.TotalBytes)
	}

	return map[string]interface{}{
		"total_requests":      cs.TotalRequests,
		"compressed_requests": cs.CompressedRequests,
		"total_bytes":         cs.TotalBytes,
		"compressed_bytes":    cs.CompressedBytes,
		"compression_ratio":   compressionRatio,
		"compression_savings": 1.0 - compressionRatio,
	}
}
