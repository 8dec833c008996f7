package theme

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

// LabelKind tells how the source of a Label is interpreted.
type LabelKind string

const (
	KindText     LabelKind = "text"     // plain text, escaped when rendered as markup
	KindHTML     LabelKind = "html"     // trusted markup, rendered as is
	KindMarkdown LabelKind = "markdown" // converted to markup with goldmark
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Label is a renderable piece of branding: the site logo, the footer text or
// the feedback prompt. How it ends up on screen is up to the consuming
// framework; a Label only knows its markup and its plain-text form.
type Label struct {
	Kind   LabelKind `json:"kind" yaml:"kind"`
	Source string    `json:"source" yaml:"source"`
}

func TextLabel(s string) Label     { return Label{Kind: KindText, Source: s} }
func HTMLLabel(s string) Label     { return Label{Kind: KindHTML, Source: s} }
func MarkdownLabel(s string) Label { return Label{Kind: KindMarkdown, Source: s} }

// IsZero reports whether the label has no content.
func (l Label) IsZero() bool {
	return strings.TrimSpace(l.Source) == ""
}

// Markup returns the label as HTML.
func (l Label) Markup() template.HTML {
	switch l.Kind {
	case KindHTML:
		return template.HTML(l.Source) //nolint:gosec // html labels are authored by the site owner
	case KindMarkdown:
		return renderMarkdown(l.Source)
	default:
		return template.HTML(template.HTMLEscapeString(l.Source)) //nolint:gosec // escaped above
	}
}

// Plain returns the label without any markup.
func (l Label) Plain() string {
	if l.Kind == KindText || l.Kind == "" {
		return l.Source
	}
	stripped := tagPattern.ReplaceAllString(string(l.Markup()), "")
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// Validate checks the kind is known and the label is not empty.
func (l Label) Validate() error {
	switch l.Kind {
	case KindText, KindHTML, KindMarkdown:
	default:
		return fmt.Errorf("unknown label kind %q", l.Kind)
	}
	if l.IsZero() {
		return fmt.Errorf("empty %s label", l.Kind)
	}
	return nil
}

// UnmarshalYAML accepts either a mapping with kind and source or a bare
// string, which is taken as a text label.
func (l *Label) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*l = TextLabel(node.Value)
		return nil
	}

	// node.Decode does not inherit KnownFields from the outer decoder.
	if node.Kind == yaml.MappingNode {
		for i := 0; i < len(node.Content); i += 2 {
			switch key := node.Content[i]; key.Value {
			case "kind", "source":
			default:
				return fmt.Errorf("line %d: unknown label field %q (want kind or source)", key.Line, key.Value)
			}
		}
	}

	type plain Label
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	if decoded.Kind == "" {
		decoded.Kind = KindText
	}
	*l = Label(decoded)
	return nil
}

func (l Label) withYear(year string) Label {
	l.Source = strings.ReplaceAll(l.Source, YearPlaceholder, year)
	return l
}

// renderMarkdown converts inline markdown. A single wrapping paragraph is
// dropped so labels stay inline.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec // escaped
	}

	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out) //nolint:gosec // produced by goldmark, raw html disabled
}
