package ctrlapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func AddRoutes(c *Controller, r *mux.Router) {
	r.Use(c.WithCORS)

	r.Handle("/venues", c.H(c.ServeVenues)).Methods(http.MethodGet)
	r.Handle("/venues/search", c.H(c.ServeVenueSearch)).Methods(http.MethodGet)
	r.Handle("/venues/{id:[0-9]+}", c.H(c.ServeVenue)).Methods(http.MethodGet)
	r.Handle("/artists", c.H(c.ServeArtists)).Methods(http.MethodGet)
	r.Handle("/artists/search", c.H(c.ServeArtistSearch)).Methods(http.MethodGet)
	r.Handle("/artists/{id:[0-9]+}", c.H(c.ServeArtist)).Methods(http.MethodGet)
	r.Handle("/shows", c.H(c.ServeShows)).Methods(http.MethodGet)

	notFoundHandler := c.H(func(*http.Request) *Response { return notFound("route") })
	notFoundRoute := r.NewRoute().Handler(notFoundHandler)
	r.NotFoundHandler = notFoundRoute.GetHandler()
}
