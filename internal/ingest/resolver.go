package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnresolvedColumns is matched by errors.Is when a required column is missing.
var ErrUnresolvedColumns = errors.New("unresolved columns")

// SynonymGroup maps a canonical field to the header fragments that identify it.
type SynonymGroup struct {
	Field    string   // Field is the canonical name, e.g. "id" or "latitude".
	Synonyms []string // Synonyms are matched as substrings of the normalized header.
	Optional bool     // Optional groups never cause a resolution failure.
}

// UnresolvedColumnsError lists the fields that could not be matched and the
// headers that were actually present.
type UnresolvedColumnsError struct {
	Dataset string
	Missing []string
	Found   []string
}

func (e *UnresolvedColumnsError) Error() string {
	return fmt.Sprintf("%s: could not identify columns for %s; found columns: [%s]",
		e.Dataset, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// Is reports whether target is ErrUnresolvedColumns.
func (e *UnresolvedColumnsError) Is(target error) bool {
	return target == ErrUnresolvedColumns
}

// Resolver finds the header that carries each canonical field.
type Resolver struct {
	groups []SynonymGroup
}

// NewResolver creates a Resolver over the given groups.
func NewResolver(groups ...SynonymGroup) *Resolver {
	return &Resolver{groups: groups}
}

// Resolve maps every group's field to the first column, in header order,
// whose normalized name contains one of the group's synonyms. Optional
// groups without a match are left out of the result.
func (r *Resolver) Resolve(dataset string, columns []string) (map[string]string, error) {
	normalized := make([]string, len(columns))
	for i, col := range columns {
		normalized[i] = Normalize(col)
	}

	resolved := make(map[string]string, len(r.groups))
	var missing []string
	for _, group := range r.groups {
		col, ok := firstMatch(columns, normalized, group.Synonyms)
		switch {
		case ok:
			resolved[group.Field] = col
		case !group.Optional:
			missing = append(missing, group.Field)
		}
	}

	if len(missing) > 0 {
		return nil, &UnresolvedColumnsError{Dataset: dataset, Missing: missing, Found: columns}
	}

	return resolved, nil
}

func firstMatch(columns, normalized, synonyms []string) (string, bool) {
	for i, name := range normalized {
		if name == "" {
			continue
		}
		for _, syn := range synonyms {
			if s := Normalize(syn); s != "" && strings.Contains(name, s) {
				return columns[i], true
			}
		}
	}

	return "", false
}
