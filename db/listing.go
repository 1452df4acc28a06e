package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
)

var (
	ErrArtistNotFound = errors.New("artist not found")
	ErrVenueNotFound  = errors.New("venue not found")
)

// likeEscaper escapes LIKE wildcards using '!', which every supported dialect
// accepts in an ESCAPE clause without extra quoting rules
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func nameContains(term string) string {
	return "%" + likeEscaper.Replace(FoldName(term)) + "%"
}

func orderByStart(db *gorm.DB) *gorm.DB {
	return db.Order("start_time")
}

// ## begin venues
// ## begin venues
// ## begin venues

func (db *DB) Venues() ([]*Venue, error) {
	var venues []*Venue
	err := db.
		Order("name").
		Find(&venues).
		Error
	return venues, err
}

// VenueAreas groups every venue by city and state, and counts the venues'
// upcoming shows
func (db *DB) VenueAreas(now time.Time) ([]*Area, error) {
	var venues []*Venue
	err := db.
		Preload("Shows").
		Order("state").
		Order("city").
		Order("name").
		Find(&venues).
		Error
	if err != nil {
		return nil, fmt.Errorf("find venues: %w", err)
	}
	areas := []*Area{}
	var area *Area
	for _, venue := range venues {
		venue.UpcomingShowCount = countUpcoming(venue.Shows, now)
		if area == nil || area.City != venue.City || area.State != venue.State {
			area = &Area{City: venue.City, State: venue.State}
			areas = append(areas, area)
		}
		area.Venues = append(area.Venues, venue)
	}
	return areas, nil
}

// SearchVenues finds venues with term anywhere in their name, ignoring case
// and accents. an empty term matches everything
func (db *DB) SearchVenues(term string, now time.Time) ([]*Venue, error) {
	var venues []*Venue
	err := db.
		Preload("Shows").
		Where("name_udec LIKE ? ESCAPE '!'", nameContains(term)).
		Order("name").
		Find(&venues).
		Error
	if err != nil {
		return nil, fmt.Errorf("search venues: %w", err)
	}
	for _, venue := range venues {
		venue.UpcomingShowCount = countUpcoming(venue.Shows, now)
	}
	return venues, nil
}

// Venue finds a venue with its shows, and each show's artist
func (db *DB) Venue(id int) (*Venue, error) {
	var venue Venue
	err := db.
		Preload("Shows", orderByStart).
		Preload("Shows.Artist").
		First(&venue, id).
		Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (db *DB) RecentVenues(limit int) ([]*Venue, error) {
	var venues []*Venue
	err := db.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&venues).
		Error
	return venues, err
}

func (db *DB) CreateVenue(venue *Venue) error {
	return db.WithTx(func(tx *DB) error {
		return tx.Create(venue).Error
	})
}

func (db *DB) UpdateVenue(venue *Venue) error {
	return db.WithTx(func(tx *DB) error {
		return tx.
			Set("gorm:association_autoupdate", false).
			Save(venue).
			Error
	})
}

// DeleteVenue deletes a venue and its shows. the shows are deleted explicitly
// so the cascade holds on dialects that ignored the column's REFERENCES clause
func (db *DB) DeleteVenue(id int) (*Venue, error) {
	var venue Venue
	err := db.WithTx(func(tx *DB) error {
		if err := tx.First(&venue, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Show{}, "venue_id=?", venue.ID).Error; err != nil {
			return fmt.Errorf("delete shows: %w", err)
		}
		return tx.Delete(&venue).Error
	})
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

// ## begin artists
// ## begin artists
// ## begin artists

func (db *DB) Artists() ([]*Artist, error) {
	var artists []*Artist
	err := db.
		Order("name").
		Find(&artists).
		Error
	return artists, err
}

func (db *DB) SearchArtists(term string, now time.Time) ([]*Artist, error) {
	var artists []*Artist
	err := db.
		Preload("Shows").
		Where("name_udec LIKE ? ESCAPE '!'", nameContains(term)).
		Order("name").
		Find(&artists).
		Error
	if err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
	}
	for _, artist := range artists {
		artist.UpcomingShowCount = countUpcoming(artist.Shows, now)
	}
	return artists, nil
}

// Artist finds an artist with its shows, and each show's venue
func (db *DB) Artist(id int) (*Artist, error) {
	var artist Artist
	err := db.
		Preload("Shows", orderByStart).
		Preload("Shows.Venue").
		First(&artist, id).
		Error
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

func (db *DB) RecentArtists(limit int) ([]*Artist, error) {
	var artists []*Artist
	err := db.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&artists).
		Error
	return artists, err
}

func (db *DB) CreateArtist(artist *Artist) error {
	return db.WithTx(func(tx *DB) error {
		return tx.Create(artist).Error
	})
}

func (db *DB) UpdateArtist(artist *Artist) error {
	return db.WithTx(func(tx *DB) error {
		return tx.
			Set("gorm:association_autoupdate", false).
			Save(artist).
			Error
	})
}

func (db *DB) DeleteArtist(id int) (*Artist, error) {
	var artist Artist
	err := db.WithTx(func(tx *DB) error {
		if err := tx.First(&artist, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Show{}, "artist_id=?", artist.ID).Error; err != nil {
			return fmt.Errorf("delete shows: %w", err)
		}
		return tx.Delete(&artist).Error
	})
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

// ## begin shows
// ## begin shows
// ## begin shows

func (db *DB) Shows() ([]*Show, error) {
	var shows []*Show
	err := db.
		Preload("Artist").
		Preload("Venue").
		Order("start_time").
		Order("id").
		Find(&shows).
		Error
	return shows, err
}

// CreateShow inserts a show after checking, in the same transaction, that the
// artist and venue it points to exist
func (db *DB) CreateShow(show *Show) error {
	return db.WithTx(func(tx *DB) error {
		err := tx.Select("id").First(&Artist{}, show.ArtistID).Error
		switch {
		case IsNotFound(err):
			return fmt.Errorf("%w: %d", ErrArtistNotFound, show.ArtistID)
		case err != nil:
			return fmt.Errorf("find artist: %w", err)
		}
		err = tx.Select("id").First(&Venue{}, show.VenueID).Error
		switch {
		case IsNotFound(err):
			return fmt.Errorf("%w: %d", ErrVenueNotFound, show.VenueID)
		case err != nil:
			return fmt.Errorf("find venue: %w", err)
		}
		show.Artist, show.Venue = nil, nil
		return tx.Create(show).Error
	})
}
