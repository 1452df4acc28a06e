package ctrlapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"go.senan.xyz/fyyur/db"
)

func idVar(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (c *Controller) ServeVenues(r *http.Request) *Response {
	areas, err := c.DB.VenueAreas(c.Now())
	if err != nil {
		return serverError(r, err)
	}
	ret := make([]*Area, 0, len(areas))
	for _, area := range areas {
		apiArea := &Area{City: area.City, State: area.State}
		for _, venue := range area.Venues {
			apiArea.Venues = append(apiArea.Venues, &Summary{
				ID:               venue.ID,
				Name:             venue.Name,
				NumUpcomingShows: venue.UpcomingShowCount,
			})
		}
		ret = append(ret, apiArea)
	}
	return &Response{data: ret}
}

func (c *Controller) ServeVenueSearch(r *http.Request) *Response {
	venues, err := c.DB.SearchVenues(r.URL.Query().Get("search_term"), c.Now())
	if err != nil {
		return serverError(r, err)
	}
	result := &SearchResult{Data: []*Summary{}}
	for _, venue := range venues {
		result.Data = append(result.Data, &Summary{
			ID:               venue.ID,
			Name:             venue.Name,
			NumUpcomingShows: venue.UpcomingShowCount,
		})
	}
	result.Count = len(result.Data)
	return &Response{data: result}
}

func (c *Controller) ServeVenue(r *http.Request) *Response {
	id, ok := idVar(r)
	if !ok {
		return notFound("venue")
	}
	venue, err := c.DB.Venue(id)
	switch {
	case db.IsNotFound(err):
		return notFound("venue")
	case err != nil:
		return serverError(r, err)
	}
	return &Response{data: newVenue(venue, c.Now())}
}

func (c *Controller) ServeArtists(r *http.Request) *Response {
	artists, err := c.DB.Artists()
	if err != nil {
		return serverError(r, err)
	}
	ret := make([]*Listing, 0, len(artists))
	for _, artist := range artists {
		ret = append(ret, &Listing{ID: artist.ID, Name: artist.Name})
	}
	return &Response{data: ret}
}

func (c *Controller) ServeArtistSearch(r *http.Request) *Response {
	artists, err := c.DB.SearchArtists(r.URL.Query().Get("search_term"), c.Now())
	if err != nil {
		return serverError(r, err)
	}
	result := &SearchResult{Data: []*Summary{}}
	for _, artist := range artists {
		result.Data = append(result.Data, &Summary{
			ID:               artist.ID,
			Name:             artist.Name,
			NumUpcomingShows: artist.UpcomingShowCount,
		})
	}
	result.Count = len(result.Data)
	return &Response{data: result}
}

func (c *Controller) ServeArtist(r *http.Request) *Response {
	id, ok := idVar(r)
	if !ok {
		return notFound("artist")
	}
	artist, err := c.DB.Artist(id)
	switch {
	case db.IsNotFound(err):
		return notFound("artist")
	case err != nil:
		return serverError(r, err)
	}
	return &Response{data: newArtist(artist, c.Now())}
}

func (c *Controller) ServeShows(r *http.Request) *Response {
	shows, err := c.DB.Shows()
	if err != nil {
		return serverError(r, err)
	}
	ret := make([]*Show, 0, len(shows))
	for _, show := range shows {
		ret = append(ret, newShow(show))
	}
	return &Response{data: ret}
}
