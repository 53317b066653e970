package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metafunctor/mf/internal/domain"
	"github.com/metafunctor/mf/pkg/errors"
	"github.com/metafunctor/mf/pkg/fields"
	"github.com/metafunctor/mf/pkg/store"
)

// printChange reports one mutation in old -> new form.
func printChange(cmd *cobra.Command, result fields.ChangeResult, dryRun bool) {
	prefix := ""
	if dryRun {
		prefix = "[dry-run] "
	}
	cmd.Printf("%s%s %s.%s: %s -> %s\n",
		prefix, result.Action, result.Slug, result.Field,
		formatValue(result.Old), formatValue(result.New))
}

func formatValue(v any) string {
	if v == nil {
		return "(unset)"
	}
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case []string:
		return "[" + strings.Join(val, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}

// printItems lists entries one per line as slug and display title.
func printItems(cmd *cobra.Command, items []store.Item) {
	for _, item := range items {
		cmd.Printf("%-30s %s\n", item.Slug, domain.Title(item.Slug, item.Entry))
	}
	cmd.Printf("%d entries\n", len(items))
}

// parseFilters turns repeated key=value flags into a filter map.
func parseFilters(raw []string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	filters := make(map[string]any, len(raw))
	for _, pair := range raw {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.NewValidationError("filter", pair, "expected key=value")
		}
		switch value {
		case "true":
			filters[key] = true
		case "false":
			filters[key] = false
		default:
			filters[key] = value
		}
	}
	return filters, nil
}

// splitList splits a comma-delimited flag value, dropping empties.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// printSchema lists a schema's fields with types and descriptions.
func printSchema(cmd *cobra.Command, schema fields.Schema) {
	names := schema.Names()
	sort.Strings(names)
	for _, name := range names {
		def := schema[name]
		line := fmt.Sprintf("%-18s %-12s %s", name, def.Type, def.Description)
		if len(def.Choices) > 0 {
			line += " (one of: " + strings.Join(def.Choices, ", ") + ")"
		}
		cmd.Println(strings.TrimRight(line, " "))
	}
}
