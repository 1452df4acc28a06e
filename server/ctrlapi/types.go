package ctrlapi

import (
	"time"

	"go.senan.xyz/fyyur/db"
)

type Error struct {
	Error string `json:"error"`
}

type Listing struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Summary struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

type SearchResult struct {
	Count int        `json:"count"`
	Data  []*Summary `json:"data"`
}

type Area struct {
	City   string     `json:"city"`
	State  string     `json:"state"`
	Venues []*Summary `json:"venues"`
}

type Venue struct {
	ID                 int          `json:"id"`
	Name               string       `json:"name"`
	Genres             []string     `json:"genres"`
	Address            string       `json:"address"`
	City               string       `json:"city"`
	State              string       `json:"state"`
	Phone              string       `json:"phone"`
	Website            string       `json:"website"`
	FacebookLink       string       `json:"facebook_link"`
	SeekingTalent      bool         `json:"seeking_talent"`
	SeekingDescription string       `json:"seeking_description"`
	ImageLink          string       `json:"image_link"`
	PastShows          []*VenueShow `json:"past_shows"`
	UpcomingShows      []*VenueShow `json:"upcoming_shows"`
	PastShowsCount     int          `json:"past_shows_count"`
	UpcomingShowsCount int          `json:"upcoming_shows_count"`
}

// VenueShow is a show as listed on its venue, so it names the artist
type VenueShow struct {
	ArtistID        int       `json:"artist_id"`
	ArtistName      string    `json:"artist_name"`
	ArtistImageLink string    `json:"artist_image_link"`
	StartTime       time.Time `json:"start_time"`
}

type Artist struct {
	ID                 int           `json:"id"`
	Name               string        `json:"name"`
	Genres             []string      `json:"genres"`
	City               string        `json:"city"`
	State              string        `json:"state"`
	Phone              string        `json:"phone"`
	Website            string        `json:"website"`
	FacebookLink       string        `json:"facebook_link"`
	SeekingVenue       bool          `json:"seeking_venue"`
	SeekingDescription string        `json:"seeking_description"`
	ImageLink          string        `json:"image_link"`
	PastShows          []*ArtistShow `json:"past_shows"`
	UpcomingShows      []*ArtistShow `json:"upcoming_shows"`
	PastShowsCount     int           `json:"past_shows_count"`
	UpcomingShowsCount int           `json:"upcoming_shows_count"`
}

// ArtistShow is a show as listed on its artist, so it names the venue
type ArtistShow struct {
	VenueID        int       `json:"venue_id"`
	VenueName      string    `json:"venue_name"`
	VenueImageLink string    `json:"venue_image_link"`
	StartTime      time.Time `json:"start_time"`
}

type Show struct {
	VenueID         int       `json:"venue_id"`
	VenueName       string    `json:"venue_name"`
	ArtistID        int       `json:"artist_id"`
	ArtistName      string    `json:"artist_name"`
	ArtistImageLink string    `json:"artist_image_link"`
	StartTime       time.Time `json:"start_time"`
}

func newVenue(venue *db.Venue, now time.Time) *Venue {
	past, upcoming := db.SplitShows(venue.Shows, now)
	return &Venue{
		ID:                 venue.ID,
		Name:               venue.Name,
		Genres:             venue.GenreList(),
		Address:            venue.Address,
		City:               venue.City,
		State:              venue.State,
		Phone:              venue.Phone,
		Website:            venue.Website,
		FacebookLink:       venue.FacebookLink,
		SeekingTalent:      venue.SeekingTalent,
		SeekingDescription: venue.SeekingDescription,
		ImageLink:          venue.ImageLink,
		PastShows:          newVenueShows(past),
		UpcomingShows:      newVenueShows(upcoming),
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}
}

func newVenueShows(shows []*db.Show) []*VenueShow {
	ret := make([]*VenueShow, 0, len(shows))
	for _, show := range shows {
		vs := &VenueShow{ArtistID: show.ArtistID, StartTime: show.StartTime}
		if show.Artist != nil {
			vs.ArtistName = show.Artist.Name
			vs.ArtistImageLink = show.Artist.ImageLink
		}
		ret = append(ret, vs)
	}
	return ret
}

func newArtist(artist *db.Artist, now time.Time) *Artist {
	past, upcoming := db.SplitShows(artist.Shows, now)
	return &Artist{
		ID:                 artist.ID,
		Name:               artist.Name,
		Genres:             artist.GenreList(),
		City:               artist.City,
		State:              artist.State,
		Phone:              artist.Phone,
		Website:            artist.Website,
		FacebookLink:       artist.FacebookLink,
		SeekingVenue:       artist.SeekingVenue,
		SeekingDescription: artist.SeekingDescription,
		ImageLink:          artist.ImageLink,
		PastShows:          newArtistShows(past),
		UpcomingShows:      newArtistShows(upcoming),
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}
}

func newArtistShows(shows []*db.Show) []*ArtistShow {
	ret := make([]*ArtistShow, 0, len(shows))
	for _, show := range shows {
		as := &ArtistShow{VenueID: show.VenueID, StartTime: show.StartTime}
		if show.Venue != nil {
			as.VenueName = show.Venue.Name
			as.VenueImageLink = show.Venue.ImageLink
		}
		ret = append(ret, as)
	}
	return ret
}

func newShow(show *db.Show) *Show {
	ret := &Show{
		VenueID:   show.VenueID,
		ArtistID:  show.ArtistID,
		StartTime: show.StartTime,
	}
	if show.Venue != nil {
		ret.VenueName = show.Venue.Name
	}
	if show.Artist != nil {
		ret.ArtistName = show.Artist.Name
		ret.ArtistImageLink = show.Artist.ImageLink
	}
	return ret
}
