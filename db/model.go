//nolint:lll // struct tags get very long and can't be split
package db

import (
	"sort"
	"strings"
	"time"

	"github.com/rainycape/unidecode"
)

const genreSep = ","

// SplitGenres splits the stored genre column, dropping blanks
func SplitGenres(in string) []string {
	if in == "" {
		return []string{}
	}
	parts := strings.Split(in, genreSep)
	ret := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ret = append(ret, p)
		}
	}
	return ret
}

func JoinGenres(in []string) string {
	parts := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, genreSep)
}

// FoldName is the form of a name stored in the name_udec columns. search
// terms are folded the same way before matching
func FoldName(in string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(in)))
}

type SettingKey string

const (
	SessionKey SettingKey = "session_key"
)

type Setting struct {
	Key   SettingKey `gorm:"not null; primary_key; auto_increment:false" sql:"default: null"`
	Value string     `sql:"default: null"`
}

type Venue struct {
	ID                 int `gorm:"primary_key"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Name               string  `gorm:"not null" sql:"default: null"`
	NameUDec           string  `gorm:"column:name_udec;index" sql:"default: null"`
	City               string  `gorm:"size:120"`
	State              string  `gorm:"size:120"`
	Address            string  `gorm:"size:120"`
	Phone              string  `gorm:"size:120"`
	Genres             string  `gorm:"size:500"`
	ImageLink          string  `gorm:"size:500"`
	FacebookLink       string  `gorm:"size:120"`
	Website            string  `gorm:"size:120"`
	SeekingTalent      bool
	SeekingDescription string  `gorm:"size:500"`
	Shows              []*Show `gorm:"foreignkey:VenueID"`
	UpcomingShowCount  int     `sql:"-"`
}

func (v *Venue) BeforeSave() error {
	v.NameUDec = FoldName(v.Name)
	return nil
}

func (v *Venue) GenreList() []string {
	return SplitGenres(v.Genres)
}

type Artist struct {
	ID                 int `gorm:"primary_key"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Name               string  `gorm:"not null" sql:"default: null"`
	NameUDec           string  `gorm:"column:name_udec;index" sql:"default: null"`
	City               string  `gorm:"size:120"`
	State              string  `gorm:"size:120"`
	Phone              string  `gorm:"size:120"`
	Genres             string  `gorm:"size:500"`
	ImageLink          string  `gorm:"size:500"`
	FacebookLink       string  `gorm:"size:120"`
	Website            string  `gorm:"size:120"`
	SeekingVenue       bool
	SeekingDescription string  `gorm:"size:500"`
	Shows              []*Show `gorm:"foreignkey:ArtistID"`
	UpcomingShowCount  int     `sql:"-"`
}

func (a *Artist) BeforeSave() error {
	a.NameUDec = FoldName(a.Name)
	return nil
}

func (a *Artist) GenreList() []string {
	return SplitGenres(a.Genres)
}

// Show links one artist to one venue at one time. the foreign key columns are
// left nullable since mysql won't accept NOT NULL after an inline REFERENCES.
// presence is checked in CreateShow instead
type Show struct {
	ID        int `gorm:"primary_key"`
	Artist    *Artist
	ArtistID  int `gorm:"index" sql:"type:int REFERENCES artists(id) ON DELETE CASCADE"`
	Venue     *Venue
	VenueID   int       `gorm:"index" sql:"type:int REFERENCES venues(id) ON DELETE CASCADE"`
	StartTime time.Time `gorm:"index"`
}

func (s *Show) BeforeSave() error {
	s.StartTime = s.StartTime.UTC()
	return nil
}

// SplitShows partitions shows around now. a show starting exactly at now is
// upcoming. both results keep start time order
func SplitShows(shows []*Show, now time.Time) (past, upcoming []*Show) {
	sorted := make([]*Show, len(shows))
	copy(sorted, shows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})
	past, upcoming = []*Show{}, []*Show{}
	for _, s := range sorted {
		if s.StartTime.Before(now) {
			past = append(past, s)
			continue
		}
		upcoming = append(upcoming, s)
	}
	return past, upcoming
}

func countUpcoming(shows []*Show, now time.Time) int {
	var n int
	for _, s := range shows {
		if !s.StartTime.Before(now) {
			n++
		}
	}
	return n
}

// Area is a (city, state) pair with the venues in it
type Area struct {
	City   string
	State  string
	Venues []*Venue
}
