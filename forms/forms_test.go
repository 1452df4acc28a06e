package forms_test

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/forms"
)

func validVenue() url.Values {
	return url.Values{
		"name":           {"  The Musical Hop "},
		"city":           {"San Francisco"},
		"state":          {"CA"},
		"address":        {"1015 Folsom Street"},
		"phone":          {"123-123-1234"},
		"genres":         {"Jazz", "Reggae", "Swing"},
		"facebook_link":  {"https://www.facebook.com/TheMusicalHop"},
		"website_link":   {"https://www.themusicalhop.com"},
		"seeking_talent": {"y"},
	}
}

func TestDecodeVenue(t *testing.T) {
	t.Parallel()

	form, err := forms.DecodeVenue(validVenue())
	require.NoError(t, err)
	require.NoError(t, form.Validate())

	assert.Equal(t, "The Musical Hop", form.Name)
	assert.Equal(t, []string{"Jazz", "Reggae", "Swing"}, form.Genres)
	assert.True(t, form.SeekingTalent)

	var venue db.Venue
	form.Apply(&venue)
	assert.Equal(t, "Jazz,Reggae,Swing", venue.Genres)
	assert.Equal(t, "https://www.themusicalhop.com", venue.Website)
	assert.Equal(t, form, forms.VenueFrom(&venue))
}

func TestDecodeSingleGenre(t *testing.T) {
	t.Parallel()

	values := validVenue()
	values["genres"] = []string{"Jazz"}
	form, err := forms.DecodeVenue(values)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jazz"}, form.Genres)
}

func TestCheckbox(t *testing.T) {
	t.Parallel()

	tcases := []struct {
		value    []string
		expected bool
	}{
		{nil, false},
		{[]string{"y"}, true},
		{[]string{"on"}, true},
		{[]string{"true"}, true},
		{[]string{"false"}, false},
		{[]string{""}, false},
	}
	for _, tcase := range tcases {
		values := validVenue()
		delete(values, "seeking_talent")
		if tcase.value != nil {
			values["seeking_talent"] = tcase.value
		}
		form, err := forms.DecodeVenue(values)
		require.NoError(t, err)
		assert.Equal(t, tcase.expected, form.SeekingTalent, "value %v", tcase.value)
	}
}

func TestVenueValidate(t *testing.T) {
	t.Parallel()

	tcases := []struct {
		name    string
		mutate  func(url.Values)
		message string
	}{
		{"missing name", func(v url.Values) { v.Set("name", "   ") }, "please enter a name"},
		{"missing city", func(v url.Values) { v.Del("city") }, "please enter a city"},
		{"bad state", func(v url.Values) { v.Set("state", "ZZ") }, `"ZZ" is not a known state`},
		{"missing address", func(v url.Values) { v.Del("address") }, "please enter an address"},
		{"bad phone", func(v url.Values) { v.Set("phone", "1231231234") }, `phone "1231231234" should look like 555-555-5555`},
		{"no genres", func(v url.Values) { v.Del("genres") }, "please choose at least one genre"},
		{"bad genre", func(v url.Values) { v["genres"] = []string{"Jazz", "Polka"} }, `"Polka" is not a known genre`},
		{"bad website", func(v url.Values) { v.Set("website_link", "themusicalhop.com") }, `website link "themusicalhop.com" should be a full http(s) url`},
		{"bad facebook host", func(v url.Values) { v.Set("facebook_link", "https://myspace.com/hop") }, `facebook link "https://myspace.com/hop" should be on facebook.com`},
	}
	for _, tcase := range tcases {
		tcase := tcase
		t.Run(tcase.name, func(t *testing.T) {
			t.Parallel()

			values := validVenue()
			tcase.mutate(values)
			form, err := forms.DecodeVenue(values)
			require.NoError(t, err)

			err = form.Validate()
			require.Error(t, err)

			var verrs forms.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, forms.ValidationErrors{tcase.message}, verrs)
		})
	}
}

func TestVenueValidateCollectsAll(t *testing.T) {
	t.Parallel()

	form, err := forms.DecodeVenue(url.Values{})
	require.NoError(t, err)

	var verrs forms.ValidationErrors
	require.ErrorAs(t, form.Validate(), &verrs)
	assert.Len(t, verrs, 5)
}

func TestArtistValidate(t *testing.T) {
	t.Parallel()

	form, err := forms.DecodeArtist(url.Values{
		"name":          {"Guns N Petals"},
		"city":          {"San Francisco"},
		"state":         {"CA"},
		"genres":        {"Rock n Roll"},
		"facebook_link": {"https://www.facebook.com/GunsNPetals"},
		"seeking_venue": {"y"},
	})
	require.NoError(t, err)
	require.NoError(t, form.Validate())
	assert.True(t, form.SeekingVenue)

	var artist db.Artist
	form.Apply(&artist)
	assert.Equal(t, "Rock n Roll", artist.Genres)
	assert.Equal(t, form, forms.ArtistFrom(&artist))

	// address isn't part of an artist
	form.Name = ""
	var verrs forms.ValidationErrors
	require.ErrorAs(t, form.Validate(), &verrs)
	assert.Equal(t, forms.ValidationErrors{"please enter a name"}, verrs)
}

func TestDecodeShow(t *testing.T) {
	t.Parallel()

	expected := time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2035-04-01 20:00:00",
		"2035-04-01T20:00",
		"2035-04-01T20:00:00",
		"2035-04-01T20:00:00Z",
		"2035-04-01T15:00:00-05:00",
	} {
		form, err := forms.DecodeShow(url.Values{
			"artist_id":  {"3"},
			"venue_id":   {"1"},
			"start_time": {in},
		})
		require.NoError(t, err, "start time %q", in)
		require.NoError(t, form.Validate())
		assert.True(t, expected.Equal(form.StartTime), "start time %q", in)

		show := form.Model()
		assert.Equal(t, 3, show.ArtistID)
		assert.Equal(t, 1, show.VenueID)
	}
}

func TestDecodeShowInvalid(t *testing.T) {
	t.Parallel()

	_, err := forms.DecodeShow(url.Values{
		"artist_id":  {"three"},
		"venue_id":   {"1"},
		"start_time": {"2035-04-01 20:00:00"},
	})
	var verrs forms.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	_, err = forms.DecodeShow(url.Values{
		"artist_id":  {"3"},
		"venue_id":   {"1"},
		"start_time": {"next tuesday"},
	})
	require.ErrorAs(t, err, &verrs)

	form, err := forms.DecodeShow(url.Values{})
	require.NoError(t, err)
	require.ErrorAs(t, form.Validate(), &verrs)
	assert.Equal(t, forms.ValidationErrors{
		"please choose an artist",
		"please choose a venue",
		"please enter a start time",
	}, verrs)
}

func TestAllGenresFitColumn(t *testing.T) {
	t.Parallel()

	dbc, err := db.NewMock()
	require.NoError(t, err)
	t.Cleanup(func() { dbc.Close() })

	joined := db.JoinGenres(forms.Genres)
	for _, model := range []interface{}{&db.Venue{}, &db.Artist{}} {
		field, ok := dbc.NewScope(model).FieldByName("Genres")
		require.True(t, ok)
		size, ok := field.TagSettingsGet("SIZE")
		require.True(t, ok)
		require.Greater(t, atoi(t, size), len(joined))
	}
}

func atoi(t *testing.T, in string) int {
	t.Helper()
	n, err := strconv.Atoi(in)
	require.NoError(t, err)
	return n
}
