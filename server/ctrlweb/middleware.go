package ctrlweb

import (
	"context"
	"net/http"
	"runtime/debug"

	"go.senan.xyz/fyyur/server/ctrlbase"
)

func (c *Controller) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := c.sessDB.Get(r, sessionName)
		withSession := context.WithValue(r.Context(), CtxSession, session)
		next.ServeHTTP(w, r.WithContext(withSession))
	})
}

// WithRecovery renders the error page if a handler panics
func (c *Controller) WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler { //nolint:errorlint
				panic(rec)
			}
			ctrlbase.Logger(r).Errorw("recovered from panic",
				"panic", rec,
				"stack", string(debug.Stack()))
			c.H(func(*http.Request) *Response { return serverError() }).ServeHTTP(w, r)
		}()
		next.ServeHTTP(w, r)
	})
}
