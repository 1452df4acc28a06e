package ctrlweb

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"go.senan.xyz/fyyur/server/ctrlbase"
)

func (c *Controller) ServeNotFound(r *http.Request) *Response {
	return notFound()
}

func (c *Controller) ServeHome(r *http.Request) *Response {
	data := &templateData{}
	var err error
	if data.Venues, err = c.DB.RecentVenues(recentLimit); err != nil {
		ctrlbase.Logger(r).Errorw("finding recent venues", "err", err)
		return serverError()
	}
	if data.Artists, err = c.DB.RecentArtists(recentLimit); err != nil {
		ctrlbase.Logger(r).Errorw("finding recent artists", "err", err)
		return serverError()
	}
	return &Response{
		template: "home.tmpl",
		data:     data,
	}
}

// idVar is the record id from the route. the routes only match digits, but the
// number can still be out of range
func idVar(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func searchTerm(r *http.Request) string {
	return r.FormValue("search_term")
}
