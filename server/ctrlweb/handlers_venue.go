package ctrlweb

import (
	"fmt"
	"net/http"

	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/events"
	"go.senan.xyz/fyyur/forms"
	"go.senan.xyz/fyyur/server/ctrlbase"
)

func (c *Controller) ServeVenues(r *http.Request) *Response {
	areas, err := c.DB.VenueAreas(c.Now())
	if err != nil {
		ctrlbase.Logger(r).Errorw("finding venue areas", "err", err)
		return serverError()
	}
	return &Response{
		template: "venues.tmpl",
		data:     &templateData{Areas: areas},
	}
}

func (c *Controller) ServeVenueSearch(r *http.Request) *Response {
	term := searchTerm(r)
	venues, err := c.DB.SearchVenues(term, c.Now())
	if err != nil {
		ctrlbase.Logger(r).Errorw("searching venues", "term", term, "err", err)
		return serverError()
	}
	return &Response{
		template: "search_venues.tmpl",
		data:     &templateData{SearchTerm: term, Venues: venues},
	}
}

func (c *Controller) ServeVenue(r *http.Request) *Response {
	id, ok := idVar(r)
	if !ok {
		return notFound()
	}
	venue, err := c.DB.Venue(id)
	switch {
	case db.IsNotFound(err):
		return notFound()
	case err != nil:
		ctrlbase.Logger(r).Errorw("finding venue", "id", id, "err", err)
		return serverError()
	}
	past, upcoming := db.SplitShows(venue.Shows, c.Now())
	return &Response{
		template: "venue.tmpl",
		data: &templateData{
			Venue:         venue,
			PastShows:     past,
			UpcomingShows: upcoming,
		},
	}
}

func (c *Controller) ServeVenueCreate(r *http.Request) *Response {
	return &Response{
		template: "venue_form.tmpl",
		data: &templateData{
			FormTitle:  "list a new venue",
			FormAction: "/venues/create",
			VenueForm:  &forms.Venue{},
		},
	}
}

func (c *Controller) ServeVenueCreateDo(r *http.Request) *Response {
	if err := r.ParseForm(); err != nil {
		return &Response{code: http.StatusBadRequest, err: "couldn't parse form"}
	}
	form, err := forms.DecodeVenue(r.PostForm)
	if err != nil {
		return validationFailure(err, "/venues/create")
	}
	if err := form.Validate(); err != nil {
		return validationFailure(err, "/venues/create")
	}
	venue := &db.Venue{}
	form.Apply(venue)
	if err := c.DB.CreateVenue(venue); err != nil {
		return failure(r, err, fmt.Sprintf("Venue %s could not be listed", venue.Name))
	}
	c.Publish(r, events.New(events.VenueCreated, venue.ID, venue.Name))
	return &Response{
		redirect: fmt.Sprintf("/venues/%d", venue.ID),
		flashN:   []string{fmt.Sprintf("Venue %s was successfully listed!", venue.Name)},
	}
}

func (c *Controller) ServeVenueEdit(r *http.Request) *Response {
	id, ok := idVar(r)
	if !ok {
		return notFound()
	}
	venue, err := c.DB.Venue(id)
	switch {
	case db.IsNotFound(err):
		return notFound()
	case err != nil:
		ctrlbase.Logger(r).Errorw("finding venue", "id", id, "err", err)
		return serverError()
	}
	return &Response{
		template: "venue_form.tmpl",
		data: &templateData{
			FormTitle:  "edit venue",
			FormAction: fmt.Sprintf("/venues/%d/edit", venue.ID),
			VenueForm:  forms.VenueFrom(venue),
		},
	}
}

func (c *Controller) ServeVenueEditDo(r *http.Request) *Response {
	id, ok := idVar(r)
	if !ok {
		return notFound()
	}
	venue, err := c.DB.Venue(id)
	switch {
	case db.IsNotFound(err):
		return notFound()
	case err != nil:
		ctrlbase.Logger(r).Errorw("finding venue", "id", id, "err", err)
		return serverError()
	}
	back := fmt.Sprintf("/venues/%d/edit", venue.ID)
	if err := r.ParseForm(); err != nil {
		return &Response{code: http.StatusBadRequest, err: "couldn't parse form"}
	}
	form, err := forms.DecodeVenue(r.PostForm)
	if err != nil {
		return validationFailure(err, back)
	}
	if err := form.Validate(); err != nil {
		return validationFailure(err, back)
	}
	form.Apply(venue)
	if err := c.DB.UpdateVenue(venue); err != nil {
		return failure(r, err, fmt.Sprintf("Venue %s could not be updated", venue.Name))
	}
	c.Publish(r, events.New(events.VenueUpdated, venue.ID, venue.Name))
	return &Response{
		redirect: fmt.Sprintf("/venues/%d", venue.ID),
		flashN:   []string{fmt.Sprintf("Venue %s was successfully updated!", venue.Name)},
	}
}

func (c *Controller) ServeVenueDeleteDo(r *http.Request) *Response {
	id, ok := idVar(r)
	if !ok {
		return notFound()
	}
	venue, err := c.DB.DeleteVenue(id)
	switch {
	case db.IsNotFound(err):
		return notFound()
	case err != nil:
		return failure(r, err, fmt.Sprintf("Venue %d could not be deleted", id))
	}
	c.Publish(r, events.New(events.VenueDeleted, venue.ID, venue.Name))
	return &Response{
		redirect: "/",
		flashN:   []string{fmt.Sprintf("Venue %s was successfully deleted.", venue.Name)},
	}
}
