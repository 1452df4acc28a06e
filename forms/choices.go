package forms

//nolint:gochecknoglobals
var (
	Genres = []string{
		"Alternative",
		"Blues",
		"Classical",
		"Country",
		"Electronic",
		"Folk",
		"Funk",
		"Hip-Hop",
		"Heavy Metal",
		"Instrumental",
		"Jazz",
		"Musical Theatre",
		"Pop",
		"Punk",
		"R&B",
		"Reggae",
		"Rock n Roll",
		"Soul",
		"Swing",
		"Other",
	}

	States = []string{
		"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL",
		"GA", "HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME",
		"MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OH",
		"OK", "OR", "MD", "MA", "MI", "MN", "MS", "MO", "PA", "RI",
		"SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI",
		"WY",
	}

	genreSet = toSet(Genres)
	stateSet = toSet(States)
)

func IsGenre(in string) bool { _, ok := genreSet[in]; return ok }
func IsState(in string) bool { _, ok := stateSet[in]; return ok }

func toSet(in []string) map[string]struct{} {
	ret := make(map[string]struct{}, len(in))
	for _, s := range in {
		ret[s] = struct{}{}
	}
	return ret
}
