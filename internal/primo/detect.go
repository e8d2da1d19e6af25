package primo

import (
	"fmt"
	"net/url"
	"strings"
)

// DetectFromSearchURL extracts a LibraryConfig from a discovery-frontend
// search URL pasted from the browser's address bar.
func DetectFromSearchURL(raw string) (LibraryConfig, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return LibraryConfig{}, fmt.Errorf("parsing URL: %w", err)
	}

	params := parsed.Query()

	vid := params.Get("vid")
	tab := params.Get("tab")
	scope := params.Get("search_scope")
	if scope == "" {
		scope = params.Get("scope")
	}

	var missing []string
	if vid == "" {
		missing = append(missing, "vid")
	}
	if tab == "" {
		missing = append(missing, "tab")
	}
	if scope == "" {
		missing = append(missing, "search_scope")
	}
	if len(missing) > 0 {
		return LibraryConfig{}, fmt.Errorf(
			"missing parameters: %s", strings.Join(missing, ", "),
		)
	}

	// The vid's prefix is the institution code.
	institution := vid
	if idx := strings.Index(vid, ":"); idx >= 0 {
		institution = vid[:idx]
	}

	return LibraryConfig{
		Name:        nameFromHost(parsed.Host),
		BaseURL:     parsed.Scheme + "://" + parsed.Host,
		VID:         vid,
		Tab:         tab,
		Scope:       scope,
		Institution: institution,
	}, nil
}

// DetectFromAPIURL extracts a LibraryConfig from a pnxs API URL copied out
// of the browser's network inspector. Unlike the search URL, the API URL
// carries the institution explicitly.
func DetectFromAPIURL(raw string) (LibraryConfig, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return LibraryConfig{}, fmt.Errorf("parsing URL: %w", err)
	}

	params := parsed.Query()

	vid := params.Get("vid")
	tab := params.Get("tab")
	scope := params.Get("scope")
	institution := params.Get("inst")

	var missing []string
	if vid == "" {
		missing = append(missing, "vid")
	}
	if tab == "" {
		missing = append(missing, "tab")
	}
	if scope == "" {
		missing = append(missing, "scope")
	}
	if institution == "" {
		missing = append(missing, "inst")
	}
	if len(missing) > 0 {
		return LibraryConfig{}, fmt.Errorf(
			"missing parameters: %s", strings.Join(missing, ", "),
		)
	}

	return LibraryConfig{
		Name:        nameFromHost(parsed.Host),
		BaseURL:     parsed.Scheme + "://" + parsed.Host,
		VID:         vid,
		Tab:         tab,
		Scope:       scope,
		Institution: institution,
	}, nil
}

// nameFromHost derives a readable default name from the library's domain.
func nameFromHost(host string) string {
	trimmed := strings.TrimSuffix(host, ".primo.exlibrisgroup.com")
	parts := strings.Split(trimmed, ".")
	return strings.ToUpper(parts[0]) + " Library"
}
