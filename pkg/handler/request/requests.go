// Package request turns query strings into index filters.
package request

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/yumyai/vogapi/pkg/db"
	"github.com/yumyai/vogapi/pkg/model"
)

// SpeciesQuery reads ?name= and ?phage=. Absent parameters do not filter.
func SpeciesQuery(r *http.Request) (db.SpeciesFilter, error) {
	q := r.URL.Query()
	var f db.SpeciesFilter

	if q.Has("name") {
		name := q.Get("name")
		f.Name = &name
	}
	if q.Has("phage") {
		phage, ok := ParseBool(q.Get("phage"))
		if !ok {
			return f, fmt.Errorf("phage must be a boolean, got %q", q.Get("phage"))
		}
		f.Phage = &phage
	}
	return f, nil
}

// GroupQuery reads ?description=, repeated ?species= and ?stringency=.
func GroupQuery(r *http.Request) (db.GroupFilter, error) {
	q := r.URL.Query()
	var f db.GroupFilter

	if q.Has("description") {
		desc := q.Get("description")
		f.Description = &desc
	}
	f.Species = q["species"]
	if q.Has("stringency") {
		s, err := model.ParseStringency(q.Get("stringency"))
		if err != nil {
			return f, err
		}
		f.Stringency = &s
	}
	return f, nil
}

// FormatQuery reads ?format=.
func FormatQuery(r *http.Request) (Format, error) {
	return NewFormat(r.URL.Query().Get("format"))
}

// ParseBool accepts the usual query-string spellings of a boolean, case
// insensitive: 1/0, true/false, t/f, yes/no, y/n, on/off.
func ParseBool(raw string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, true
	case "0", "false", "f", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
