package primo

import (
	"net/url"
	"strings"
)

// RecordID returns the document's unique identifier, or "" when the record
// carries none. Records without an ID cannot be deduplicated or linked.
func RecordID(doc Doc) string {
	ids := doc.PNX.Control.RecordID
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// RecordURL builds the full-display link for a document, or "" when the
// record has no ID. Central-index records (cdi_ prefix) need the PC context.
func RecordURL(doc Doc, cfg LibraryConfig) string {
	rid := RecordID(doc)
	if rid == "" {
		return ""
	}

	recCtx := "L"
	if strings.HasPrefix(rid, "cdi_") {
		recCtx = "PC"
	}

	params := url.Values{}
	params.Set("docid", rid)
	params.Set("context", recCtx)
	params.Set("vid", cfg.VID)
	params.Set("lang", "en")
	params.Set("search_scope", cfg.Scope)
	params.Set("tab", cfg.Tab)

	return cfg.BaseURL + "/discovery/fulldisplay?" + params.Encode()
}

// Summary is the flattened, display-ready view of a document.
type Summary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Creator     string   `json:"creator"`
	Type        string   `json:"type"`
	Date        string   `json:"date"`
	Publisher   string   `json:"publisher,omitempty"`
	Language    string   `json:"language,omitempty"`
	Subjects    []string `json:"subjects,omitempty"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Summarize flattens a raw document into a Summary, filling placeholders
// for missing display fields the way the discovery UI does.
func Summarize(doc Doc, cfg LibraryConfig) Summary {
	disp := doc.PNX.Display

	creator := first(disp.Creator)
	if creator == "" {
		creator = first(disp.Contributor)
	}
	if creator == "" {
		creator = "Unknown"
	}

	return Summary{
		ID:          RecordID(doc),
		Title:       firstOr(disp.Title, "Unknown"),
		Creator:     creator,
		Type:        firstOr(disp.Type, "?"),
		Date:        firstOr(disp.CreationDate, "n.d."),
		Publisher:   first(disp.Publisher),
		Language:    first(disp.Language),
		Subjects:    disp.Subject,
		Description: first(disp.Description),
		URL:         RecordURL(doc, cfg),
	}
}

// SummarizeAll converts a batch of documents.
func SummarizeAll(docs []Doc, cfg LibraryConfig) []Summary {
	out := make([]Summary, 0, len(docs))
	for _, d := range docs {
		out = append(out, Summarize(d, cfg))
	}
	return out
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func firstOr(vals []string, fallback string) string {
	if v := first(vals); v != "" {
		return v
	}
	return fallback
}
