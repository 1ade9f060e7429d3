package relgraph

import (
	"fmt"
	"strings"
)

// CascadeMode how far a write follows relations, chosen per call
type CascadeMode uint8

const (
	// CascadeDefault Insert cascades inserts, Update and Delete touch one row
	CascadeDefault CascadeMode = iota
	// CascadeNone write only the entity itself
	CascadeNone
	// CascadeInsert follow edges flagged for insert
	CascadeInsert
	// CascadeUpdate follow edges flagged for update, inserting keyless nodes
	CascadeUpdate
	// CascadeDelete delete dependents flagged for delete before the owner
	CascadeDelete
	// CascadeNull set the foreign key of dependents flagged for delete to
	// NULL before the owner is deleted
	CascadeNull
)

var cascadeModeNames = []string{"default", "none", "insert", "update", "delete", "null"}

func (m CascadeMode) String() string {
	if int(m) < len(cascadeModeNames) {
		return cascadeModeNames[m]
	}
	return fmt.Sprintf("CascadeMode(%d)", int(m))
}

// ParseCascadeMode parse a mode name, as printed by String
func ParseCascadeMode(s string) (CascadeMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CascadeDefault, nil
	}
	for i, name := range cascadeModeNames {
		if name == s {
			return CascadeMode(i), nil
		}
	}
	return CascadeDefault, fmt.Errorf("unknown cascade mode %q", s)
}

func (m CascadeMode) or(fallback CascadeMode) CascadeMode {
	if m == CascadeDefault {
		return fallback
	}
	return m
}
