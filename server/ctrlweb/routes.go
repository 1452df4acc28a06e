package ctrlweb

import (
	"net/http"

	"github.com/gorilla/mux"

	"go.senan.xyz/fyyur/server/ctrlweb/webui"
)

func AddRoutes(c *Controller, r *mux.Router) {
	r.PathPrefix("/static/").Handler(http.FileServer(http.FS(webui.StaticFS)))

	r.Use(c.WithSession)
	r.Use(c.WithRecovery)

	r.Handle("/", c.H(c.ServeHome)).Methods(http.MethodGet)

	r.Handle("/venues", c.H(c.ServeVenues)).Methods(http.MethodGet)
	r.Handle("/venues/search", c.H(c.ServeVenueSearch)).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/venues/create", c.H(c.ServeVenueCreate)).Methods(http.MethodGet)
	r.Handle("/venues/create", c.H(c.ServeVenueCreateDo)).Methods(http.MethodPost)
	r.Handle("/venues/{id:[0-9]+}", c.H(c.ServeVenue)).Methods(http.MethodGet)
	r.Handle("/venues/{id:[0-9]+}", c.H(c.ServeVenueDeleteDo)).Methods(http.MethodDelete)
	r.Handle("/venues/{id:[0-9]+}/edit", c.H(c.ServeVenueEdit)).Methods(http.MethodGet)
	r.Handle("/venues/{id:[0-9]+}/edit", c.H(c.ServeVenueEditDo)).Methods(http.MethodPost)

	r.Handle("/artists", c.H(c.ServeArtists)).Methods(http.MethodGet)
	r.Handle("/artists/search", c.H(c.ServeArtistSearch)).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/artists/create", c.H(c.ServeArtistCreate)).Methods(http.MethodGet)
	r.Handle("/artists/create", c.H(c.ServeArtistCreateDo)).Methods(http.MethodPost)
	r.Handle("/artists/{id:[0-9]+}", c.H(c.ServeArtist)).Methods(http.MethodGet)
	r.Handle("/artists/{id:[0-9]+}", c.H(c.ServeArtistDeleteDo)).Methods(http.MethodDelete)
	r.Handle("/artists/{id:[0-9]+}/edit", c.H(c.ServeArtistEdit)).Methods(http.MethodGet)
	r.Handle("/artists/{id:[0-9]+}/edit", c.H(c.ServeArtistEditDo)).Methods(http.MethodPost)

	r.Handle("/shows", c.H(c.ServeShows)).Methods(http.MethodGet)
	r.Handle("/shows/create", c.H(c.ServeShowCreate)).Methods(http.MethodGet)
	r.Handle("/shows/create", c.H(c.ServeShowCreateDo)).Methods(http.MethodPost)

	// middlewares should be run for not found handler
	// https://github.com/gorilla/mux/issues/416
	notFoundHandler := c.H(c.ServeNotFound)
	notFoundRoute := r.NewRoute().Handler(notFoundHandler)
	r.NotFoundHandler = notFoundRoute.GetHandler()
}
