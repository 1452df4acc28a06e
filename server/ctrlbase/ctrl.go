// Package ctrlbase holds what the web and api controllers share
package ctrlbase

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go.senan.xyz/fyyur/countrw"
	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/events"
)

type ctxKey int

const ctxRequestID ctxKey = iota

type Controller struct {
	DB          *db.DB
	Events      events.Publisher
	ProxyPrefix string
	// Now is the clock used to split shows into past and upcoming
	Now func() time.Time
}

// Path returns a URL path with the proxy prefix included
func (c *Controller) Path(rel string) string {
	return path.Join(c.ProxyPrefix, rel)
}

// Publish sends a listing event. a broker failure is logged, the change it
// describes is already committed
func (c *Controller) Publish(r *http.Request, event events.Event) {
	if c.Events == nil {
		return
	}
	if err := c.Events.Publish(r.Context(), event); err != nil {
		Logger(r).Warnw("publishing event", "kind", event.Kind, "id", event.ID, "err", err)
	}
}

// WithRequestID tags the request with a new id, or the one the proxy in front
// of us already set
func (c *Controller) WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		withID := context.WithValue(r.Context(), ctxRequestID, id)
		next.ServeHTTP(w, r.WithContext(withID))
	})
}

func RequestID(r *http.Request) string {
	id, _ := r.Context().Value(ctxRequestID).(string)
	return id
}

// Logger is the global logger with the request's id attached
func Logger(r *http.Request) *zap.SugaredLogger {
	if id := RequestID(r); id != "" {
		return zap.S().With("request_id", id)
	}
	return zap.S()
}

func (c *Controller) WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// this is (should be) the first middleware. pass right though it
		// by calling `next` first instead of last. when it completes all
		// other middlewares and the custom ResponseWriter has been written
		start := time.Now()
		cw := countrw.New(w)
		next.ServeHTTP(cw, r)
		Logger(r).Infow("response",
			"method", r.Method,
			"path", r.URL.Path,
			"status", cw.Status(),
			"bytes", cw.Count(),
			"took", time.Since(start))
	})
}

func (c *Controller) WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods",
			"GET, OPTIONS",
		)
		w.Header().Set("Access-Control-Allow-Headers",
			"Accept, Content-Type, Content-Length, Accept-Encoding",
		)
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}

type recoveryLogger struct {
	*zap.SugaredLogger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.Errorln(fmt.Sprint(v...))
}
