package content

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/metafunctor/mf/pkg/errors"
)

const frontMatterDelim = "---"

// Page is one parsed content page: its YAML front matter plus the
// markdown body.
type Page struct {
	Meta map[string]any
	Body string
}

// ParsePage reads a markdown file and splits its YAML front matter
// from the body. A file without front matter yields empty Meta.
func ParsePage(path string) (*Page, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return parsePage(path, string(blob))
}

func parsePage(path, text string) (*Page, error) {
	rest, ok := strings.CutPrefix(text, frontMatterDelim+"\n")
	if !ok {
		return &Page{Meta: map[string]any{}, Body: text}, nil
	}

	// An immediately closed block is empty front matter.
	if after, ok := strings.CutPrefix(rest, frontMatterDelim); ok {
		return &Page{Meta: map[string]any{}, Body: strings.TrimPrefix(after, "\n")}, nil
	}

	head, body, ok := strings.Cut(rest, "\n"+frontMatterDelim)
	if !ok {
		return nil, errors.NewParseError("yaml", path, "unterminated front matter", nil)
	}
	body = strings.TrimPrefix(body, "\n")

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(head), &meta); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &Page{Meta: meta, Body: body}, nil
}
