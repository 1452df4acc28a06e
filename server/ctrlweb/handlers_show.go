package ctrlweb

import (
	"errors"
	"fmt"
	"net/http"

	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/events"
	"go.senan.xyz/fyyur/forms"
	"go.senan.xyz/fyyur/server/ctrlbase"
)

func (c *Controller) ServeShows(r *http.Request) *Response {
	shows, err := c.DB.Shows()
	if err != nil {
		ctrlbase.Logger(r).Errorw("finding shows", "err", err)
		return serverError()
	}
	return &Response{
		template: "shows.tmpl",
		data:     &templateData{Shows: shows},
	}
}

func (c *Controller) ServeShowCreate(r *http.Request) *Response {
	data := &templateData{}
	var err error
	if data.Artists, err = c.DB.Artists(); err != nil {
		ctrlbase.Logger(r).Errorw("finding artists", "err", err)
		return serverError()
	}
	if data.Venues, err = c.DB.Venues(); err != nil {
		ctrlbase.Logger(r).Errorw("finding venues", "err", err)
		return serverError()
	}
	return &Response{
		template: "show_form.tmpl",
		data:     data,
	}
}

func (c *Controller) ServeShowCreateDo(r *http.Request) *Response {
	const back = "/shows/create"
	if err := r.ParseForm(); err != nil {
		return &Response{code: http.StatusBadRequest, err: "couldn't parse form"}
	}
	form, err := forms.DecodeShow(r.PostForm)
	if err != nil {
		return validationFailure(err, back)
	}
	if err := form.Validate(); err != nil {
		return validationFailure(err, back)
	}
	show := form.Model()
	err = c.DB.CreateShow(show)
	switch {
	case errors.Is(err, db.ErrArtistNotFound):
		return &Response{
			redirect: back,
			flashW:   []string{fmt.Sprintf("there is no artist with id %d", form.ArtistID)},
		}
	case errors.Is(err, db.ErrVenueNotFound):
		return &Response{
			redirect: back,
			flashW:   []string{fmt.Sprintf("there is no venue with id %d", form.VenueID)},
		}
	case err != nil:
		return failure(r, err, "Show could not be listed")
	}
	c.Publish(r, events.New(events.ShowCreated, show.ID, ""))
	return &Response{
		redirect: "/shows",
		flashN:   []string{"Show was successfully listed!"},
	}
}
