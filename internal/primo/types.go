package primo

// LibraryConfig identifies one Primo VE instance. The five API parameters
// come from the library's discovery frontend; see DetectFromSearchURL.
type LibraryConfig struct {
	Name        string `yaml:"name" json:"name"`
	BaseURL     string `yaml:"base_url" json:"base_url"`
	VID         string `yaml:"vid" json:"vid"`
	Tab         string `yaml:"tab" json:"tab"`
	Scope       string `yaml:"scope" json:"scope"`
	Institution string `yaml:"institution" json:"institution"`
}

// MaterialTypes maps user-facing filter names to Primo facet_rtype values.
var MaterialTypes = map[string]string{
	"book":         "books",
	"ebook":        "ebooks",
	"article":      "articles",
	"journal":      "journals",
	"newspaper":    "newspapers",
	"dissertation": "dissertations",
	"video":        "videos",
	"audio":        "audios",
	"image":        "images",
	"map":          "maps",
	"score":        "scores",
	"database":     "databases",
	"conference":   "conference_proceedings",
	"dataset":      "datasets",
	"review":       "reviews",
	"text":         "text_resources",
}

// SearchFields are the query fields the pool rotates through to vary results.
var SearchFields = []string{"any", "title", "sub", "creator"}

// Doc is one search result. Primo's PNX schema is large; only the fields
// the application reads are modeled, everything else is ignored on decode.
type Doc struct {
	PNX PNX `json:"pnx"`
}

// PNX holds the record sections used for identity and display.
type PNX struct {
	Control Control `json:"control"`
	Display Display `json:"display"`
}

// Control holds the record's identity fields.
type Control struct {
	RecordID []string `json:"recordid"`
}

// Display holds the human-readable record fields. Primo wraps every value
// in an array even when only one is possible.
type Display struct {
	Title        []string `json:"title"`
	Creator      []string `json:"creator"`
	Contributor  []string `json:"contributor"`
	Type         []string `json:"type"`
	CreationDate []string `json:"creationdate"`
	Publisher    []string `json:"publisher"`
	Language     []string `json:"language"`
	Subject      []string `json:"subject"`
	Description  []string `json:"description"`
}
