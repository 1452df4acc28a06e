// Package seed loads venues, artists, and shows from a YAML fixtures file
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"go.senan.xyz/fyyur/db"
	"go.senan.xyz/fyyur/forms"
	"go.senan.xyz/fyyur/multierr"
)

var ErrNotEmpty = errors.New("database already has venues")

type Fixtures struct {
	Venues  []*Venue  `yaml:"venues"`
	Artists []*Artist `yaml:"artists"`
	Shows   []*Show   `yaml:"shows"`
}

type Venue struct {
	Name               string   `yaml:"name"`
	City               string   `yaml:"city"`
	State              string   `yaml:"state"`
	Address            string   `yaml:"address"`
	Phone              string   `yaml:"phone"`
	Genres             []string `yaml:"genres"`
	ImageLink          string   `yaml:"image_link"`
	FacebookLink       string   `yaml:"facebook_link"`
	WebsiteLink        string   `yaml:"website_link"`
	SeekingTalent      bool     `yaml:"seeking_talent"`
	SeekingDescription string   `yaml:"seeking_description"`
}

func (v *Venue) form() *forms.Venue {
	f := forms.Venue(*v)
	return &f
}

type Artist struct {
	Name               string   `yaml:"name"`
	City               string   `yaml:"city"`
	State              string   `yaml:"state"`
	Phone              string   `yaml:"phone"`
	Genres             []string `yaml:"genres"`
	ImageLink          string   `yaml:"image_link"`
	FacebookLink       string   `yaml:"facebook_link"`
	WebsiteLink        string   `yaml:"website_link"`
	SeekingVenue       bool     `yaml:"seeking_venue"`
	SeekingDescription string   `yaml:"seeking_description"`
}

func (a *Artist) form() *forms.Artist {
	f := forms.Artist(*a)
	return &f
}

// Show points at its venue and artist by name
type Show struct {
	Venue     string    `yaml:"venue"`
	Artist    string    `yaml:"artist"`
	StartTime time.Time `yaml:"start_time"`
}

func Load(path string) (*Fixtures, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

func Parse(r io.Reader) (*Fixtures, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var fixtures Fixtures
	if err := decoder.Decode(&fixtures); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := fixtures.Validate(); err != nil {
		return nil, err
	}
	return &fixtures, nil
}

// Validate checks every record the same way the create forms do, and checks
// that every show points at a venue and artist in the same file. all problems
// are reported, not just the first
func (f *Fixtures) Validate() error {
	var errs multierr.Err
	venues := map[string]struct{}{}
	for i, venue := range f.Venues {
		if err := venue.form().Validate(); err != nil {
			errs.Add(fmt.Errorf("venue %d %q: %w", i, venue.Name, err))
		}
		if _, ok := venues[venue.Name]; ok {
			errs.Add(fmt.Errorf("venue %d %q: duplicate name", i, venue.Name))
		}
		venues[venue.Name] = struct{}{}
	}
	artists := map[string]struct{}{}
	for i, artist := range f.Artists {
		if err := artist.form().Validate(); err != nil {
			errs.Add(fmt.Errorf("artist %d %q: %w", i, artist.Name, err))
		}
		if _, ok := artists[artist.Name]; ok {
			errs.Add(fmt.Errorf("artist %d %q: duplicate name", i, artist.Name))
		}
		artists[artist.Name] = struct{}{}
	}
	for i, show := range f.Shows {
		if _, ok := venues[show.Venue]; !ok {
			errs.Add(fmt.Errorf("show %d: unknown venue %q", i, show.Venue))
		}
		if _, ok := artists[show.Artist]; !ok {
			errs.Add(fmt.Errorf("show %d: unknown artist %q", i, show.Artist))
		}
		if show.StartTime.IsZero() {
			errs.Add(fmt.Errorf("show %d: missing start time", i))
		}
	}
	return errs.OrNil()
}

// Apply inserts the fixtures in a single transaction. it refuses with
// ErrNotEmpty if any venue is already listed, so running it on every start is
// safe
func Apply(dbc *db.DB, f *Fixtures) error {
	if err := f.Validate(); err != nil {
		return err
	}
	var count int
	if err := dbc.Model(&db.Venue{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count venues: %w", err)
	}
	if count > 0 {
		return ErrNotEmpty
	}
	err := dbc.WithTx(func(tx *db.DB) error {
		venueIDs := make(map[string]int, len(f.Venues))
		for _, fv := range f.Venues {
			var venue db.Venue
			fv.form().Apply(&venue)
			if err := tx.Create(&venue).Error; err != nil {
				return fmt.Errorf("create venue %q: %w", fv.Name, err)
			}
			venueIDs[venue.Name] = venue.ID
		}
		artistIDs := make(map[string]int, len(f.Artists))
		for _, fa := range f.Artists {
			var artist db.Artist
			fa.form().Apply(&artist)
			if err := tx.Create(&artist).Error; err != nil {
				return fmt.Errorf("create artist %q: %w", fa.Name, err)
			}
			artistIDs[artist.Name] = artist.ID
		}
		for i, fs := range f.Shows {
			show := db.Show{
				VenueID:   venueIDs[fs.Venue],
				ArtistID:  artistIDs[fs.Artist],
				StartTime: fs.StartTime,
			}
			if err := tx.Create(&show).Error; err != nil {
				return fmt.Errorf("create show %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	zap.S().Infow("seeded fixtures",
		"venues", len(f.Venues),
		"artists", len(f.Artists),
		"shows", len(f.Shows))
	return nil
}
