// Package forms decodes and validates the venue, artist, and show forms
package forms

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"go.senan.xyz/fyyur/db"
)

// ValidationErrors is every problem found with a submitted form. each message
// is meant to be shown to the user
type ValidationErrors []string

func (ve ValidationErrors) Error() string {
	return strings.Join(ve, "; ")
}

func (ve ValidationErrors) err() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}

// StartTimeLayouts are tried in order when decoding a show's start time. the
// first is the plain text format, the next two are what a datetime-local
// input sends
//
//nolint:gochecknoglobals
var StartTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

var phoneExpr = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)

type Venue struct {
	Name               string   `form:"name"`
	City               string   `form:"city"`
	State              string   `form:"state"`
	Address            string   `form:"address"`
	Phone              string   `form:"phone"`
	Genres             []string `form:"genres"`
	ImageLink          string   `form:"image_link"`
	FacebookLink       string   `form:"facebook_link"`
	WebsiteLink        string   `form:"website_link"`
	SeekingTalent      bool     `form:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description"`
}

func DecodeVenue(values url.Values) (*Venue, error) {
	var form Venue
	if err := decode(values, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

func VenueFrom(venue *db.Venue) *Venue {
	return &Venue{
		Name:               venue.Name,
		City:               venue.City,
		State:              venue.State,
		Address:            venue.Address,
		Phone:              venue.Phone,
		Genres:             venue.GenreList(),
		ImageLink:          venue.ImageLink,
		FacebookLink:       venue.FacebookLink,
		WebsiteLink:        venue.Website,
		SeekingTalent:      venue.SeekingTalent,
		SeekingDescription: venue.SeekingDescription,
	}
}

func (f *Venue) Validate() error {
	var errs ValidationErrors
	errs = append(errs, validateName(f.Name)...)
	errs = append(errs, validatePlace(f.City, f.State)...)
	if f.Address == "" {
		errs = append(errs, "please enter an address")
	}
	errs = append(errs, validatePhone(f.Phone)...)
	errs = append(errs, validateGenres(f.Genres)...)
	errs = append(errs, validateLinks(f.ImageLink, f.WebsiteLink, f.FacebookLink)...)
	return errs.err()
}

func (f *Venue) Apply(venue *db.Venue) {
	venue.Name = f.Name
	venue.City = f.City
	venue.State = f.State
	venue.Address = f.Address
	venue.Phone = f.Phone
	venue.Genres = db.JoinGenres(f.Genres)
	venue.ImageLink = f.ImageLink
	venue.FacebookLink = f.FacebookLink
	venue.Website = f.WebsiteLink
	venue.SeekingTalent = f.SeekingTalent
	venue.SeekingDescription = f.SeekingDescription
}

type Artist struct {
	Name               string   `form:"name"`
	City               string   `form:"city"`
	State              string   `form:"state"`
	Phone              string   `form:"phone"`
	Genres             []string `form:"genres"`
	ImageLink          string   `form:"image_link"`
	FacebookLink       string   `form:"facebook_link"`
	WebsiteLink        string   `form:"website_link"`
	SeekingVenue       bool     `form:"seeking_venue"`
	SeekingDescription string   `form:"seeking_description"`
}

func DecodeArtist(values url.Values) (*Artist, error) {
	var form Artist
	if err := decode(values, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

func ArtistFrom(artist *db.Artist) *Artist {
	return &Artist{
		Name:               artist.Name,
		City:               artist.City,
		State:              artist.State,
		Phone:              artist.Phone,
		Genres:             artist.GenreList(),
		ImageLink:          artist.ImageLink,
		FacebookLink:       artist.FacebookLink,
		WebsiteLink:        artist.Website,
		SeekingVenue:       artist.SeekingVenue,
		SeekingDescription: artist.SeekingDescription,
	}
}

func (f *Artist) Validate() error {
	var errs ValidationErrors
	errs = append(errs, validateName(f.Name)...)
	errs = append(errs, validatePlace(f.City, f.State)...)
	errs = append(errs, validatePhone(f.Phone)...)
	errs = append(errs, validateGenres(f.Genres)...)
	errs = append(errs, validateLinks(f.ImageLink, f.WebsiteLink, f.FacebookLink)...)
	return errs.err()
}

func (f *Artist) Apply(artist *db.Artist) {
	artist.Name = f.Name
	artist.City = f.City
	artist.State = f.State
	artist.Phone = f.Phone
	artist.Genres = db.JoinGenres(f.Genres)
	artist.ImageLink = f.ImageLink
	artist.FacebookLink = f.FacebookLink
	artist.Website = f.WebsiteLink
	artist.SeekingVenue = f.SeekingVenue
	artist.SeekingDescription = f.SeekingDescription
}

type Show struct {
	ArtistID  int       `form:"artist_id"`
	VenueID   int       `form:"venue_id"`
	StartTime time.Time `form:"start_time"`
}

func DecodeShow(values url.Values) (*Show, error) {
	var form Show
	if err := decode(values, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

func (f *Show) Validate() error {
	var errs ValidationErrors
	if f.ArtistID <= 0 {
		errs = append(errs, "please choose an artist")
	}
	if f.VenueID <= 0 {
		errs = append(errs, "please choose a venue")
	}
	if f.StartTime.IsZero() {
		errs = append(errs, "please enter a start time")
	}
	return errs.err()
}

func (f *Show) Model() *db.Show {
	return &db.Show{
		ArtistID:  f.ArtistID,
		VenueID:   f.VenueID,
		StartTime: f.StartTime,
	}
}

// ## begin decoding
// ## begin decoding
// ## begin decoding

func decode(values url.Values, out interface{}) error {
	input := make(map[string]interface{}, len(values))
	for key, vals := range values {
		switch len(vals) {
		case 0:
		case 1:
			input[key] = strings.TrimSpace(vals[0])
		default:
			trimmed := make([]string, 0, len(vals))
			for _, v := range vals {
				trimmed = append(trimmed, strings.TrimSpace(v))
			}
			input[key] = trimmed
		}
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "form",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			checkboxHook,
			startTimeHook,
		),
		Result: out,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		var mapErr *mapstructure.Error
		if errors.As(err, &mapErr) {
			return ValidationErrors(mapErr.Errors)
		}
		return ValidationErrors{err.Error()}
	}
	return nil
}

// checkboxHook treats any checkbox value as checked, unless it's explicitly
// false. unchecked boxes aren't sent at all
func checkboxHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	switch strings.ToLower(data.(string)) {
	case "", "false", "off", "n", "no", "0":
		return false, nil
	default:
		return true, nil
	}
}

func startTimeHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	in := data.(string)
	if in == "" {
		return time.Time{}, nil
	}
	for _, layout := range StartTimeLayouts {
		if t, err := time.ParseInLocation(layout, in, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return nil, fmt.Errorf("start time %q should look like %q", in, StartTimeLayouts[0])
}

// ## begin validation
// ## begin validation
// ## begin validation

func validateName(name string) []string {
	if name == "" {
		return []string{"please enter a name"}
	}
	return nil
}

func validatePlace(city, state string) []string {
	var errs []string
	if city == "" {
		errs = append(errs, "please enter a city")
	}
	if !IsState(state) {
		errs = append(errs, fmt.Sprintf("%q is not a known state", state))
	}
	return errs
}

func validatePhone(phone string) []string {
	if phone != "" && !phoneExpr.MatchString(phone) {
		return []string{fmt.Sprintf("phone %q should look like 555-555-5555", phone)}
	}
	return nil
}

func validateGenres(genres []string) []string {
	if len(genres) == 0 {
		return []string{"please choose at least one genre"}
	}
	var errs []string
	for _, g := range genres {
		if !IsGenre(g) {
			errs = append(errs, fmt.Sprintf("%q is not a known genre", g))
		}
	}
	return errs
}

func validateLinks(image, website, facebook string) []string {
	var errs []string
	for _, link := range []struct{ name, value string }{
		{"image link", image},
		{"website link", website},
		{"facebook link", facebook},
	} {
		if link.value == "" {
			continue
		}
		if !isWebURL(link.value) {
			errs = append(errs, fmt.Sprintf("%s %q should be a full http(s) url", link.name, link.value))
		}
	}
	if facebook != "" && isWebURL(facebook) {
		u, _ := url.Parse(facebook)
		if host := strings.ToLower(u.Hostname()); host != "facebook.com" && !strings.HasSuffix(host, ".facebook.com") {
			errs = append(errs, fmt.Sprintf("facebook link %q should be on facebook.com", facebook))
		}
	}
	return errs
}

func isWebURL(in string) bool {
	u, err := url.Parse(in)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
