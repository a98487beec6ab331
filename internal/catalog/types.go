package catalog

// The three read-only collections served by the Studio Ghibli API.
// Records are immutable and keyed by a string id unique within their
// collection. Cross-links (Films on a Person, People on a Film) are
// opaque reference URLs and are never resolved here.

type Film struct {
	ID                     string   `json:"id"`
	Title                  string   `json:"title"`
	OriginalTitle          string   `json:"original_title,omitempty"`
	OriginalTitleRomanised string   `json:"original_title_romanised,omitempty"`
	Image                  string   `json:"image"`
	MovieBanner            string   `json:"movie_banner"`
	Description            string   `json:"description"`
	Director               string   `json:"director"`
	Producer               string   `json:"producer"`
	ReleaseDate            string   `json:"release_date"`
	RTScore                string   `json:"rt_score"`
	People                 []string `json:"people,omitempty"`
	Species                []string `json:"species,omitempty"`
	Locations              []string `json:"locations,omitempty"`
	Vehicles               []string `json:"vehicles,omitempty"`
}

type Person struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Gender    string   `json:"gender,omitempty"`
	Age       string   `json:"age,omitempty"`
	EyeColor  string   `json:"eye_color,omitempty"`
	HairColor string   `json:"hair_color,omitempty"`
	Films     []string `json:"films"`
	Species   string   `json:"species"`
}

type Location struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Climate      string   `json:"climate,omitempty"`
	Terrain      string   `json:"terrain,omitempty"`
	SurfaceWater string   `json:"surface_water,omitempty"`
	Residents    []string `json:"residents"`
	Films        []string `json:"films"`
}
