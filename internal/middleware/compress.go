package middleware

import (
	"io"
	"strings"

	"botwatch/internal/core"
	"botwatch/internal/telemetry"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

const (
	encodingBrotli = "br"
	encodingZstd   = "zstd"
	encodingGzip   = "gzip"
)

// 伺服器端偏好順序
var supportedEncodings = []string{encodingBrotli, encodingZstd, encodingGzip}

// Compress 依 Accept-Encoding 壓縮回應（br > zstd > gzip）
type Compress struct {
	logger *zap.Logger
	trace  *telemetry.Trace
}

func NewCompress(logger *zap.Logger, trace *telemetry.Trace) *Compress {
	return &Compress{logger: logger, trace: trace}
}

func (m *Compress) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		encoding := negotiateEncoding(c.GetHeader("Accept-Encoding"))
		if encoding == "" || c.Request.Method == "HEAD" {
			c.Next()
			return
		}

		_, span, end := m.trace.WithSpan(m.trace.GetTraceContext(c), string(core.SpanCompressMiddleware))
		m.trace.ApplyTraceAttributes(span, struct {
			Encoding string `trace:"http.response.content_encoding"`
		}{Encoding: encoding})
		end(nil)

		original := c.Writer
		writer := &compressWriter{ResponseWriter: original, encoding: encoding}
		c.Writer = writer
		defer func() {
			if err := writer.Close(); err != nil {
				m.logger.Warn("close compress writer failed", zap.String("encoding", encoding), zap.Error(err))
			}
			c.Writer = original
		}()

		c.Next()
	}
}

// negotiateEncoding 忽略 q 權重，只排除 q=0
func negotiateEncoding(header string) string {
	if header == "" {
		return ""
	}
	accepted := make(map[string]bool)
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		q := strings.ReplaceAll(params, " ", "")
		if q == "q=0" || q == "q=0.0" || q == "q=0.00" || q == "q=0.000" {
			continue
		}
		accepted[name] = true
	}
	for _, enc := range supportedEncodings {
		if accepted[enc] {
			return enc
		}
	}
	return ""
}

// compressWriter 第一次寫 body 時才設定標頭與建立 encoder；沒有 body 就不壓縮
type compressWriter struct {
	gin.ResponseWriter
	encoding string
	encoder  io.WriteCloser
}

func (w *compressWriter) start() error {
	h := w.ResponseWriter.Header()
	h.Del("Content-Length")
	h.Set("Content-Encoding", w.encoding)
	h.Add("Vary", "Accept-Encoding")

	switch w.encoding {
	case encodingBrotli:
		w.encoder = brotli.NewWriterLevel(w.ResponseWriter, brotli.DefaultCompression)
	case encodingZstd:
		enc, err := zstd.NewWriter(w.ResponseWriter)
		if err != nil {
			return err
		}
		w.encoder = enc
	default:
		enc, err := gzip.NewWriterLevel(w.ResponseWriter, gzip.DefaultCompression)
		if err != nil {
			return err
		}
		w.encoder = enc
	}
	return nil
}

func (w *compressWriter) Write(data []byte) (int, error) {
	if w.encoder == nil {
		if err := w.start(); err != nil {
			return 0, err
		}
	}
	return w.encoder.Write(data)
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *compressWriter) Close() error {
	if w.encoder == nil {
		return nil
	}
	return w.encoder.Close()
}
