package ctrlbase

import (
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func AddRoutes(c *Controller, r *mux.Router, logHTTP bool) {
	r.Use(c.WithRequestID)
	if logHTTP {
		r.Use(c.WithLogging)
	}
	r.Use(handlers.ProxyHeaders)
	r.Use(handlers.CompressHandler)
	r.Use(handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{zap.S().Named("recovery")}),
		handlers.PrintRecoveryStack(true),
	))

	r.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})
}
