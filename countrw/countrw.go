// Package countrw wraps an http.ResponseWriter to record what was sent
package countrw

import (
	"net/http"
	"sync/atomic"
)

type ResponseWriter struct {
	http.ResponseWriter
	status int
	c      uint64
}

func New(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w}
}

func (w *ResponseWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *ResponseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	atomic.AddUint64(&w.c, uint64(n))
	return n, err
}

// Status is the code sent to the client, or 200 if nothing was written yet
func (w *ResponseWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *ResponseWriter) Count() uint64 { return atomic.LoadUint64(&w.c) }

// Unwrap gives http.ResponseController access to the wrapped writer
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

var _ http.ResponseWriter = (*ResponseWriter)(nil)
