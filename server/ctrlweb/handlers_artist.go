package ctrlweb

import (
	"fmt"
	"net/http"

	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/events"
	"go.senan.xyz/fyyur/forms"
	"go.senan.xyz/fyyur/server/ctrlbase"
)

func (c *Controller) ServeArtists(r *http.Request) *Response {
	artists, err := c.DB.Artists()
	if err != nil {
		ctrlbase.Logger(r).Errorw("finding artists", "err", err)
		return serverError()
	}
	return &Response{
		template: "artists.tmpl",
		data:     &templateData{Artists: artists},
	}
}

func (c *Controller) ServeArtistSearch(r *http.Request) *Response {
	term := searchTerm(r)
	artists, err := c.DB.SearchArtists(term, c.Now())
	if err != nil {
		ctrlbase.Logger(r).Errorw("searching artists", "term", term, "err", err)
		return serverError()
	}
	return &Response{
		template: "search_artists.tmpl",
		data:     &templateData{SearchTerm: term, Artists: artists},
	}
}

func (c *Controller) ServeArtist(r *http.Request) *Response {
	id, ok := idVar(r)
	if !ok {
		return notFound()
	}
	artist, err := c.DB.Artist(id)
	switch {
	case db.IsNotFound(err):
		return notFound()
	case err != nil:
		ctrlbase.Logger(r).Errorw("finding artist", "id", id, "err", err)
		return serverError()
	}
	past, upcoming := db.SplitShows(artist.Shows, c.Now())
	return &Response{
		template: "artist.tmpl",
		data: &templateData{
			Artist:        artist,
			PastShows:     past,
			UpcomingShows: upcoming,
		},
	}
}

func (c *Controller) ServeArtistCreate(r *http.Request) *Response {
	return &Response{
		template: "artist_form.tmpl",
		data: &templateData{
			FormTitle:  "list a new artist",
			FormAction: "/artists/create",
			ArtistForm: &forms.Artist{},
		},
	}
}

func (c *Controller) ServeArtistCreateDo(r *http.Request) *Response {
	if err := r.ParseForm(); err != nil {
		return &Response{code: http.StatusBadRequest, err: "couldn't parse form"}
	}
	form, err := forms.DecodeArtist(r.PostForm)
	if err != nil {
		return validationFailure(err, "/artists/create")
	}
	if err := form.Validate(); err != nil {
		return validationFailure(err, "/artists/create")
	}
	artist := &db.Artist{}
	form.Apply(artist)
	if err := c.DB.CreateArtist(artist); err != nil {
		return failure(r, err, fmt.Sprintf("Artist %s could not be listed", artist.Name))
	}
	c.Publish(r, events.New(events.ArtistCreated, artist.ID, artist.Name))
	return &Response{
		redirect: fmt.Sprintf("/artists/%d", artist.ID),
		flashN:   []string{fmt.Sprintf("Artist %s was successfully listed!", artist.Name)},
	}
}

func (c *Controller) ServeArtistEdit(r *http.Request) *Response {
	id, ok := idVar(r)
	if !ok {
		return notFound()
	}
	artist, err := c.DB.Artist(id)
	switch {
	case db.IsNotFound(err):
		return notFound()
	case err != nil:
		ctrlbase.Logger(r).Errorw("finding artist", "id", id, "err", err)
		return serverError()
	}
	return &Response{
		template: "artist_form.tmpl",
		data: &templateData{
			FormTitle:  "edit artist",
			FormAction: fmt.Sprintf("/artists/%d/edit", artist.ID),
			ArtistForm: forms.ArtistFrom(artist),
		},
	}
}

func (c *Controller) ServeArtistEditDo(r *http.Request) *Response {
	id, ok := idVar(r)
	if !ok {
		return notFound()
	}
	artist, err := c.DB.Artist(id)
	switch {
	case db.IsNotFound(err):
		return notFound()
	case err != nil:
		ctrlbase.Logger(r).Errorw("finding artist", "id", id, "err", err)
		return serverError()
	}
	back := fmt.Sprintf("/artists/%d/edit", artist.ID)
	if err := r.ParseForm(); err != nil {
		return &Response{code: http.StatusBadRequest, err: "couldn't parse form"}
	}
	form, err := forms.DecodeArtist(r.PostForm)
	if err != nil {
		return validationFailure(err, back)
	}
	if err := form.Validate(); err != nil {
		return validationFailure(err, back)
	}
	form.Apply(artist)
	if err := c.DB.UpdateArtist(artist); err != nil {
		return failure(r, err, fmt.Sprintf("Artist %s could not be updated", artist.Name))
	}
	c.Publish(r, events.New(events.ArtistUpdated, artist.ID, artist.Name))
	return &Response{
		redirect: fmt.Sprintf("/artists/%d", artist.ID),
		flashN:   []string{fmt.Sprintf("Artist %s was successfully updated!", artist.Name)},
	}
}

func (c *Controller) ServeArtistDeleteDo(r *http.Request) *Response {
	id, ok := idVar(r)
	if !ok {
		return notFound()
	}
	artist, err := c.DB.DeleteArtist(id)
	switch {
	case db.IsNotFound(err):
		return notFound()
	case err != nil:
		return failure(r, err, fmt.Sprintf("Artist %d could not be deleted", id))
	}
	c.Publish(r, events.New(events.ArtistDeleted, artist.ID, artist.Name))
	return &Response{
		redirect: "/",
		flashN:   []string{fmt.Sprintf("Artist %s was successfully deleted.", artist.Name)},
	}
}
