package router

import (
	"sort"
	"strings"
)

// Record is a flattened route with its full path and inherited meta
type Record struct {
	Path     string
	Name     string
	Redirect string
	Meta     Meta
	segments []string
	score    int
	order    int
}

// Match is the result of matching a path against the table
type Match struct {
	Record Record
	Path   string
	Params map[string]string
}

// Table matches paths to route records
type Table struct {
	records []Record
}

// NewTable flattens routes into a matchable table
func NewTable(routes []Route) *Table {
	t := &Table{}
	for _, r := range routes {
		t.add(r, "", Meta{})
	}

	// Higher score first; ties keep declaration order
	sort.SliceStable(t.records, func(i, j int) bool {
		return t.records[i].score > t.records[j].score
	})
	return t
}

func (t *Table) add(r Route, parent string, inherited Meta) {
	full := joinPath(parent, r.Path)
	meta := Meta{
		Title:         r.Meta.Title,
		RequiresAuth:  inherited.RequiresAuth || r.Meta.RequiresAuth,
		RequiresAdmin: inherited.RequiresAdmin || r.Meta.RequiresAdmin,
	}

	if len(r.Children) > 0 {
		for _, child := range r.Children {
			t.add(child, full, meta)
		}
		// A parent with children only matches through an empty child path
		return
	}

	segments := splitPath(full)
	t.records = append(t.records, Record{
		Path:     full,
		Name:     r.Name,
		Redirect: r.Redirect,
		Meta:     meta,
		segments: segments,
		score:    scoreSegments(segments),
		order:    len(t.records),
	})
}

// Records returns the flattened records in declaration order
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

// Match finds the best record for path. Static segments outrank params.
func (t *Table) Match(path string) (Match, bool) {
	path = normalize(path)
	segments := splitPath(path)

	for _, rec := range t.records {
		if params, ok := matchSegments(rec.segments, segments); ok {
			return Match{Record: rec, Path: path, Params: params}, true
		}
	}
	return Match{Path: path}, false
}

func matchSegments(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segments[i] == "" {
				return nil, false
			}
			params[p[1:]] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}

func scoreSegments(segments []string) int {
	score := 0
	for _, s := range segments {
		score *= 4
		if strings.HasPrefix(s, ":") {
			score += 1
		} else {
			score += 3
		}
	}
	return score
}

func joinPath(parent, child string) string {
	if strings.HasPrefix(child, "/") {
		return child
	}
	if child == "" {
		return parent
	}
	return strings.TrimSuffix(parent, "/") + "/" + child
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// normalize strips the query string, fragment and trailing slash
func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
