package fields

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Coerce converts a raw value (typically CLI text, but possibly an
// already-typed value from a registry fetch) to the field's declared
// type. Values outside the declared set are rejected rather than
// accepted as arbitrary shapes.
func Coerce(def Def, raw any) (any, error) {
	switch def.Type {
	case TypeString:
		return coerceString(raw)
	case TypeInt:
		return coerceInt(raw)
	case TypeBool:
		return coerceBool(raw)
	case TypeStringList:
		return coerceStringList(raw)
	case TypeDict:
		return coerceDict(raw)
	default:
		return nil, fmt.Errorf("unknown field type: %s", def.Type)
	}
}

func coerceString(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got: %v", raw)
	}
	return s, nil
}

func coerceInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected integer, got: %v", v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("expected integer, got: %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got: %v", raw)
	}
}

func coerceBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1", "on":
			return true, nil
		case "false", "no", "0", "off":
			return false, nil
		}
		return false, fmt.Errorf("expected boolean (true/false/yes/no/1/0/on/off), got: %q", v)
	default:
		return false, fmt.Errorf("expected boolean, got: %v", raw)
	}
}

// coerceStringList accepts a list of strings, a JSON array in text
// form, or comma-delimited text.
func coerceStringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected list of strings, got element: %v", item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "[") {
			var parsed []any
			if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
				out := make([]string, 0, len(parsed))
				for _, item := range parsed {
					out = append(out, fmt.Sprint(item))
				}
				return out, nil
			}
		}
		var out []string
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string list, got: %v", raw)
	}
}

// coerceDict accepts a map or a JSON object in text form.
func coerceDict(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(v)), &parsed); err != nil {
			return nil, fmt.Errorf("expected JSON object, got: %q", v)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("expected JSON object, got: %v", raw)
	}
}

// Validate coerces raw against the named field and checks its
// constraints, returning every violation. An empty result means the
// value is valid.
func Validate(schema Schema, field string, raw any) []string {
	top, sub := splitPath(field)
	def, ok := schema[top]
	if !ok {
		return []string{fmt.Sprintf("unknown field: %q", top)}
	}

	if sub != "" {
		if def.Type != TypeDict {
			return []string{fmt.Sprintf("dot notation only works on dict fields, but %q is %s", top, def.Type)}
		}
		return nil
	}

	_, violations := coerceAndCheck(def, top, raw)
	return violations
}

// coerceAndCheck coerces raw and checks choice membership and numeric
// bounds, accumulating every violated constraint.
func coerceAndCheck(def Def, field string, raw any) (any, []string) {
	value, err := Coerce(def, raw)
	if err != nil {
		return nil, []string{fmt.Sprintf("%s: %v", field, err)}
	}

	var violations []string

	if n, ok := value.(int); ok {
		if def.Min != nil && n < *def.Min {
			violations = append(violations, fmt.Sprintf("%s: value %d is below minimum %d", field, n, *def.Min))
		}
		if def.Max != nil && n > *def.Max {
			violations = append(violations, fmt.Sprintf("%s: value %d is above maximum %d", field, n, *def.Max))
		}
	}

	if s, ok := value.(string); ok && len(def.Choices) > 0 {
		valid := false
		for _, choice := range def.Choices {
			if s == choice {
				valid = true
				break
			}
		}
		if !valid {
			violations = append(violations, fmt.Sprintf("%s: %q is not a valid choice (options: %s)",
				field, s, strings.Join(def.Choices, ", ")))
		}
	}

	return value, violations
}
