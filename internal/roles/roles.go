// Package roles manages the analyst role templates that define council's
// worker registry. Roles are markdown files with YAML frontmatter: built-in
// templates are embedded in the binary, and users can override or extend
// them from their configuration directory.
package roles

import (
	"fmt"
	"sort"

	"github.com/quorumlabs/council/internal/workflow"
)

// Source indicates where a role template originated from.
type Source int

const (
	// SourceBuiltIn indicates a role bundled with the application.
	SourceBuiltIn Source = iota
	// SourceUser indicates a role from the user's configuration directory.
	SourceUser
)

// String returns a human-readable representation of the Source.
func (s Source) String() string {
	switch s {
	case SourceBuiltIn:
		return "built-in"
	case SourceUser:
		return "user"
	default:
		return "unknown"
	}
}

// Role is one analyst (or the lead) as defined by a template file.
type Role struct {
	// ID is derived from the filename (e.g. "market" from "market.md").
	ID string

	// Name is the human-readable display name from frontmatter.
	Name string

	// Description is a brief description from frontmatter.
	Description string

	// Position fixes aggregation and display order, from frontmatter.
	Position int

	// Lead marks the aggregator role. Exactly one role must be the lead.
	Lead bool

	// Instructions is the markdown body handed to the generation
	// collaborator as the role's system instructions.
	Instructions string

	// Source indicates whether this is a built-in or user-defined role.
	Source Source

	// FilePath is the absolute path for user roles (empty for built-in).
	FilePath string
}

// Spec converts the role to a workflow worker spec.
func (r Role) Spec() workflow.WorkerSpec {
	return workflow.WorkerSpec{
		ID:           r.ID,
		Name:         r.Name,
		Instructions: r.Instructions,
		Position:     r.Position,
	}
}

// Merge overlays user roles onto the built-in set. A user role with the same
// ID replaces the built-in one; new IDs are appended. The result is sorted
// by position.
func Merge(builtin, user []Role) []Role {
	byID := make(map[string]int, len(builtin))
	merged := make([]Role, len(builtin))
	copy(merged, builtin)
	for i, r := range merged {
		byID[r.ID] = i
	}

	for _, r := range user {
		if i, ok := byID[r.ID]; ok {
			merged[i] = r
		} else {
			byID[r.ID] = len(merged)
			merged = append(merged, r)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Position < merged[j].Position })
	return merged
}

// Split separates a merged role set into the analyst registry and the lead.
// It fails when no role (or more than one) is marked as lead, or when no
// analysts remain.
func Split(all []Role) (analysts []Role, lead Role, err error) {
	found := false
	for _, r := range all {
		if r.Lead {
			if found {
				return nil, Role{}, fmt.Errorf("multiple lead roles defined: %s and %s", lead.ID, r.ID)
			}
			lead = r
			found = true
			continue
		}
		analysts = append(analysts, r)
	}
	if !found {
		return nil, Role{}, fmt.Errorf("no lead role defined")
	}
	if len(analysts) == 0 {
		return nil, Role{}, fmt.Errorf("no analyst roles defined")
	}
	return analysts, lead, nil
}
