// Package ctrlapi provides HTTP handlers for the read only json api
package ctrlapi

import (
	"encoding/json"
	"net/http"

	"go.senan.xyz/fyyur/server/ctrlbase"
)

type Controller struct {
	*ctrlbase.Controller
}

func New(b *ctrlbase.Controller) *Controller {
	return &Controller{Controller: b}
}

type Response struct {
	// code is 200
	data interface{}
	// code is >= 400
	code int
	err  string
}

type handlerAPI func(r *http.Request) *Response

func (c *Controller) H(h handlerAPI) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := h(r)
		code := http.StatusOK
		payload := resp.data
		if resp.err != "" {
			code = resp.code
			payload = &Error{Error: resp.err}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			ctrlbase.Logger(r).Warnw("writing json response", "err", err)
		}
	})
}

func notFound(what string) *Response {
	return &Response{code: http.StatusNotFound, err: what + " not found"}
}

func serverError(r *http.Request, err error) *Response {
	ctrlbase.Logger(r).Errorw("api request failed", "path", r.URL.Path, "err", err)
	return &Response{code: http.StatusInternalServerError, err: "internal server error"}
}
