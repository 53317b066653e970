package fields

import (
	"slices"

	"github.com/metafunctor/mf/pkg/errors"
	"github.com/metafunctor/mf/pkg/store"
)

// Set validates raw against the schema and writes the coerced value to
// the entry's field. Validation failures leave the entry untouched.
// Dot notation addresses keys inside dict fields, creating the
// intermediate map when absent.
func Set(s *store.Store, schema Schema, slug, field string, raw any) (ChangeResult, error) {
	top, sub := splitPath(field)
	def, ok := schema[top]
	if !ok {
		return ChangeResult{}, errors.NewUnknownFieldError(s.Name(), top)
	}

	entry, ok := s.Get(slug)
	if !ok {
		return ChangeResult{}, errors.NewNotFoundError(s.Name()+" entry", slug)
	}

	if sub != "" {
		return setNested(s, def, entry, slug, top, sub, raw)
	}

	value, violations := coerceAndCheck(def, top, raw)
	if len(violations) > 0 {
		return ChangeResult{}, errors.NewValidationError(field, raw, violations...)
	}

	old := entry[top]
	entry[top] = value
	return ChangeResult{Slug: slug, Field: field, Old: old, New: value, Action: ActionSet}, nil
}

func setNested(s *store.Store, def Def, entry store.Entry, slug, top, sub string, raw any) (ChangeResult, error) {
	if def.Type != TypeDict {
		return ChangeResult{}, errors.NewValidationError(top+"."+sub, raw,
			"dot notation only works on dict fields, but "+top+" is "+string(def.Type))
	}

	dict, ok := entry[top].(map[string]any)
	if !ok {
		dict = make(map[string]any)
		entry[top] = dict
	}

	old := dict[sub]
	dict[sub] = raw
	return ChangeResult{Slug: slug, Field: top + "." + sub, Old: old, New: raw, Action: ActionSet}, nil
}

// Unset removes the field from the entry, or resets it to the schema's
// declared default when one exists. Unsetting an absent field (or an
// absent entry) succeeds as a no-op reporting Old = nil.
func Unset(s *store.Store, schema Schema, slug, field string) (ChangeResult, error) {
	top, sub := splitPath(field)
	def, ok := schema[top]
	if !ok {
		return ChangeResult{}, errors.NewUnknownFieldError(s.Name(), top)
	}

	result := ChangeResult{Slug: slug, Field: field, Action: ActionUnset}

	entry, ok := s.Get(slug)
	if !ok {
		return result, nil
	}

	if sub != "" {
		dict, ok := entry[top].(map[string]any)
		if !ok {
			return result, nil
		}
		result.Old = dict[sub]
		delete(dict, sub)
		return result, nil
	}

	result.Old = entry[top]
	if def.Default != nil {
		entry[top] = def.Default
		result.New = def.Default
	} else {
		delete(entry, top)
	}
	return result, nil
}

// ListEdit describes one list mutation. Exactly one mode is honored
// per call: Replace wins over Add, Add over Remove.
type ListEdit struct {
	Add     []string
	Remove  []string
	Replace []string
}

// ModifyList edits a string-list field in place. Add appends values
// not already present, preserving order; Remove deletes matching
// values, ignoring absent ones; Replace overwrites the list wholesale.
// A remove that empties the list deletes the field: empty lists are
// normalized to absence, so add-then-remove on a previously absent
// field restores absence, and a pre-existing empty list comes back
// absent rather than empty.
func ModifyList(s *store.Store, schema Schema, slug, field string, edit ListEdit) (ChangeResult, error) {
	def, ok := schema[field]
	if !ok {
		return ChangeResult{}, errors.NewUnknownFieldError(s.Name(), field)
	}
	if def.Type != TypeStringList {
		return ChangeResult{}, errors.NewValidationError(field, nil,
			field+" is "+string(def.Type)+", not a list field")
	}

	entry, ok := s.Get(slug)
	if !ok {
		return ChangeResult{}, errors.NewNotFoundError(s.Name()+" entry", slug)
	}

	old := store.StringList(entry[field])

	var (
		next   []string
		action Action
	)
	switch {
	case edit.Replace != nil:
		next = slices.Clone(edit.Replace)
		action = ActionReplace
	case len(edit.Add) > 0:
		next = slices.Clone(old)
		for _, v := range edit.Add {
			if !slices.Contains(next, v) {
				next = append(next, v)
			}
		}
		action = ActionAdd
	case len(edit.Remove) > 0:
		for _, v := range old {
			if !slices.Contains(edit.Remove, v) {
				next = append(next, v)
			}
		}
		action = ActionRemove
	default:
		return ChangeResult{}, errors.NewValidationError(field, nil,
			"one of add, remove, or replace is required")
	}

	result := ChangeResult{Slug: slug, Field: field, New: next, Action: action}
	if _, present := entry[field]; present {
		result.Old = old
	}

	if action == ActionRemove && len(next) == 0 {
		// Removing the last element restores absence rather than
		// leaving an empty list behind.
		delete(entry, field)
		result.New = nil
		return result, nil
	}

	entry[field] = next
	return result, nil
}
