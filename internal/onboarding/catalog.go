package onboarding

// CatalogEntry is a platform offered during onboarding.
type CatalogEntry struct {
	Name           string
	Color          string
	SuggestedPrice float64
}

// Catalog lists the platforms offered in step 1, in display order.
var Catalog = []CatalogEntry{
	{Name: "Netflix", Color: "#E50914", SuggestedPrice: 15.49},
	{Name: "Disney+", Color: "#113CCF", SuggestedPrice: 13.99},
	{Name: "Hulu", Color: "#1CE783", SuggestedPrice: 17.99},
	{Name: "Max", Color: "#002BE7", SuggestedPrice: 15.99},
	{Name: "Prime Video", Color: "#00A8E0", SuggestedPrice: 8.99},
	{Name: "Apple TV+", Color: "#6e6e6e", SuggestedPrice: 9.99},
	{Name: "Peacock", Color: "#F5821E", SuggestedPrice: 5.99},
	{Name: "Paramount+", Color: "#0064FF", SuggestedPrice: 5.99},
	{Name: "ESPN+", Color: "#E4151A", SuggestedPrice: 10.99},
	{Name: "Showtime", Color: "#C41230", SuggestedPrice: 10.99},
	{Name: "Starz", Color: "#7b4b9a", SuggestedPrice: 8.99},
	{Name: "Discovery+", Color: "#2175D9", SuggestedPrice: 4.99},
	{Name: "YouTube Premium", Color: "#FF0000", SuggestedPrice: 13.99},
	{Name: "Crunchyroll", Color: "#F47521", SuggestedPrice: 7.99},
	{Name: "AMC+", Color: "#c4242b", SuggestedPrice: 8.99},
}

// Genres lists the genre tags offered in step 3.
var Genres = []string{
	"Action", "Comedy", "Drama", "Thriller", "Horror",
	"Sci-Fi", "Documentary", "Romance", "Animation", "Reality",
	"Fantasy", "Crime", "Mystery", "Sports", "Kids",
}

// ContentType is the kind of titles the user prefers.
type ContentType string

const (
	ContentBoth   ContentType = "both"
	ContentMovies ContentType = "movies"
	ContentShows  ContentType = "shows"
)

// ContentTypes lists the choices of step 3 in display order.
var ContentTypes = []ContentType{ContentBoth, ContentMovies, ContentShows}

// Label returns the display name.
func (c ContentType) Label() string {
	switch c {
	case ContentBoth:
		return "Movies & Shows"
	case ContentMovies:
		return "Movies"
	case ContentShows:
		return "Shows"
	default:
		return string(c)
	}
}

// Lookup returns the catalog entry named name.
func Lookup(name string) (CatalogEntry, bool) {
	for _, e := range Catalog {
		if e.Name == name {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

func isGenre(g string) bool {
	for _, known := range Genres {
		if known == g {
			return true
		}
	}
	return false
}

func isContentType(c ContentType) bool {
	for _, known := range ContentTypes {
		if known == c {
			return true
		}
	}
	return false
}
