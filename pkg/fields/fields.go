// Package fields provides the schema-driven field-mutation engine
// shared by every mf database. Each domain declares a Schema (field
// name -> Def); the engine validates and coerces raw values uniformly
// and mutates entries through a store, reporting every change as a
// ChangeResult so the CLI can print diffs and support dry runs.
package fields

import (
	"sort"
	"strings"
)

// Type is the declared type of a field.
type Type string

// Supported field types.
const (
	TypeString     Type = "string"
	TypeInt        Type = "int"
	TypeBool       Type = "bool"
	TypeStringList Type = "string_list"
	TypeDict       Type = "dict"
)

// IsValid checks if the type is one of the declared set.
func (t Type) IsValid() bool {
	switch t {
	case TypeString, TypeInt, TypeBool, TypeStringList, TypeDict:
		return true
	default:
		return false
	}
}

// Def is the schema definition for a single field.
type Def struct {
	Type        Type
	Description string

	// Choices restricts string values to an allowed set.
	Choices []string

	// Min and Max bound int values (inclusive).
	Min *int
	Max *int

	// Default, when set, is what Unset resets the field to instead of
	// removing it.
	Default any
}

// Schema maps field names to their definitions; one per domain.
type Schema map[string]Def

// Names returns the schema's field names in sorted order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Action describes what a mutation did.
type Action string

// Mutation actions.
const (
	ActionSet     Action = "set"
	ActionUnset   Action = "unset"
	ActionAdd     Action = "add"
	ActionRemove  Action = "remove"
	ActionReplace Action = "replace"
)

// ChangeResult is the uniform result of any field mutation, used for
// reporting and for dry-run preview. Old is nil when the field was
// absent before the change.
type ChangeResult struct {
	Slug   string
	Field  string
	Old    any
	New    any
	Action Action
}

// IntRange is a convenience constructor for Min/Max bounds.
func IntRange(minVal, maxVal int) (*int, *int) {
	return &minVal, &maxVal
}

// splitPath splits a dot-notation field path into (top, sub).
// "stars" -> ("stars", ""); "external_docs.readthedocs" ->
// ("external_docs", "readthedocs").
func splitPath(field string) (string, string) {
	if i := strings.Index(field, "."); i >= 0 {
		return field[:i], field[i+1:]
	}
	return field, ""
}
