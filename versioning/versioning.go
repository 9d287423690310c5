// Package versioning upgrades loaded documents through an ordered ladder of
// migration steps.
//
// A document records the version it was written with under the "version"
// key as a [major, minor] pair. Every step whose version is above the
// document version runs once, unless its guard field is already present, and
// the document is then stamped with the newest version of the ladder.
package versioning

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// VersionKey is where a document stores its [major, minor] version.
const VersionKey = "version"

var (
	ErrUnordered  = errors.New("migration steps out of order")
	ErrBadVersion = errors.New("malformed document version")
	ErrTooNew     = errors.New("document is newer than this program")
)

// Document is a decoded configuration tree, as produced by a TOML or YAML
// decoder into map[string]any.
type Document map[string]any

type Version struct {
	Major, Minor int
}

func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Step upgrades documents older than Version.
type Step struct {
	Version Version
	Name    string
	// Field is a dotted path whose presence means the document already has
	// what the step adds. Empty means the step always runs when due.
	Field string
	Apply func(doc Document) error
}

type Ladder struct {
	steps []Step
	head  Version
}

// NewLadder checks that steps are sorted by strictly increasing version.
func NewLadder(steps ...Step) (*Ladder, error) {
	l := &Ladder{}
	for i, s := range steps {
		if i > 0 && !steps[i-1].Version.Less(s.Version) {
			return nil, fmt.Errorf("%s after %s: %w", s.Version, steps[i-1].Version, ErrUnordered)
		}
		l.head = s.Version
	}
	l.steps = append(l.steps, steps...)
	return l, nil
}

// Head is the version documents are stamped with after Migrate.
func (l *Ladder) Head() Version {
	return l.head
}

// Migrate applies the due steps to doc in order and returns their names.
func (l *Ladder) Migrate(doc Document) ([]string, error) {
	from, err := DocumentVersion(doc)
	if err != nil {
		return nil, err
	}
	if l.head.Less(from) {
		return nil, fmt.Errorf("document %s, newest known %s: %w", from, l.head, ErrTooNew)
	}

	var applied []string
	for _, s := range l.steps {
		if !from.Less(s.Version) {
			continue
		}
		if s.Field != "" && HasField(doc, s.Field) {
			continue
		}
		if err := s.Apply(doc); err != nil {
			return applied, fmt.Errorf("migration %s (%s): %w", s.Name, s.Version, err)
		}
		slog.Debug("applied migration", "step", s.Name, "version", s.Version.String())
		applied = append(applied, s.Name)
	}
	if from.Less(l.head) {
		SetDocumentVersion(doc, l.head)
	}
	return applied, nil
}

// DocumentVersion reads the version of doc; a document without one is 0.0.
func DocumentVersion(doc Document) (Version, error) {
	raw, ok := doc[VersionKey]
	if !ok {
		return Version{}, nil
	}
	pair, ok := raw.([]any)
	if !ok || len(pair) != 2 {
		return Version{}, fmt.Errorf("%v: %w", raw, ErrBadVersion)
	}
	major, ok1 := toInt(pair[0])
	minor, ok2 := toInt(pair[1])
	if !ok1 || !ok2 {
		return Version{}, fmt.Errorf("%v: %w", raw, ErrBadVersion)
	}
	return Version{Major: major, Minor: minor}, nil
}

func SetDocumentVersion(doc Document, v Version) {
	doc[VersionKey] = []any{int64(v.Major), int64(v.Minor)}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	}
	return 0, false
}

// HasField reports whether the dotted path exists in doc. Arrays of tables
// match only when every element has the rest of the path, so a step guarded
// by a per-table field still runs while one table lacks it.
func HasField(doc Document, path string) bool {
	return hasField(map[string]any(doc), strings.Split(path, "."))
}

func hasField(node any, path []string) bool {
	if len(path) == 0 {
		return true
	}
	switch n := node.(type) {
	case map[string]any:
		child, ok := n[path[0]]
		return ok && hasField(child, path[1:])
	case Document:
		return hasField(map[string]any(n), path)
	case []any:
		for _, el := range n {
			if !hasField(el, path) {
				return false
			}
		}
		return len(n) > 0
	case []map[string]any:
		for _, el := range n {
			if !hasField(el, path) {
				return false
			}
		}
		return len(n) > 0
	}
	return false
}

// Tables returns the tables stored under key, whether decoded as []any or
// []map[string]any.
func Tables(doc Document, key string) []map[string]any {
	switch v := doc[key].(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, el := range v {
			if m, ok := el.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// Table returns the table under key, creating it when missing.
func Table(doc Document, key string) map[string]any {
	if m, ok := doc[key].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	doc[key] = m
	return m
}
