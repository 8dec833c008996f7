// Package render encodes a theme configuration for the documentation
// framework: JSON and YAML documents, or a JSX theme module.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexander-kolodka/crestic-docs/internal/theme"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatJSX  Format = "jsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatYAML, FormatJSX}

// ParseFormat parses a format name, case-insensitively. An empty name means
// JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatJSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want one of %v)", s, Formats)
	}
}

// ContentType is the HTTP content type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	case FormatJSX:
		return "text/javascript; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Document is the wire form of a configuration: labels are flattened to
// their markup.
type Document struct {
	Logo               string        `json:"logo" yaml:"logo"`
	DocsRepositoryBase string        `json:"docsRepositoryBase" yaml:"docsRepositoryBase"`
	Project            ProjectDoc    `json:"project" yaml:"project"`
	Sidebar            theme.Sidebar `json:"sidebar" yaml:"sidebar"`
	Feedback           FeedbackDoc   `json:"feedback" yaml:"feedback"`
	Footer             FooterDoc     `json:"footer" yaml:"footer"`
	TitleTemplate      string        `json:"titleTemplate" yaml:"titleTemplate"`
	DefaultTitle       string        `json:"defaultTitle" yaml:"defaultTitle"`
}

type ProjectDoc struct {
	Link string `json:"link" yaml:"link"`
}

type FeedbackDoc struct {
	Content string `json:"content" yaml:"content"`
}

type FooterDoc struct {
	Text string `json:"text" yaml:"text"`
}

// NewDocument flattens c.
func NewDocument(c theme.Config) Document {
	return Document{
		Logo:               string(c.Logo.Markup()),
		DocsRepositoryBase: c.DocsRepositoryBase,
		Project:            ProjectDoc{Link: c.Project.Link},
		Sidebar:            c.Sidebar,
		Feedback:           FeedbackDoc{Content: string(c.Feedback.Content.Markup())},
		Footer:             FooterDoc{Text: string(c.Footer.Text.Markup())},
		TitleTemplate:      c.TitleTemplate,
		DefaultTitle:       c.DefaultTitle,
	}
}

// Write encodes c to w in the given format.
func Write(w io.Writer, f Format, c theme.Config) error {
	switch f {
	case FormatJSON:
		return JSON(w, c)
	case FormatYAML:
		return YAML(w, c)
	case FormatJSX:
		return JSX(w, c)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

// JSON writes c as an indented JSON document.
func JSON(w io.Writer, c theme.Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewDocument(c)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// YAML writes c as a YAML document.
func YAML(w io.Writer, c theme.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(c)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}
