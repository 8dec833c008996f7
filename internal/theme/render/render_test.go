package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/alexander-kolodka/crestic-docs/internal/theme"
)

func testConfig(t *testing.T) theme.Config {
	t.Helper()
	p, err := theme.New(theme.WithClock(func() time.Time {
		return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("theme.New() error = %v", err)
	}
	return p.Config()
}

func wantDocument() Document {
	return Document{
		Logo:               "Crestic",
		DocsRepositoryBase: "https://github.com/alexander-kolodka/crestic/tree/main/docs",
		Project:            ProjectDoc{Link: "https://github.com/alexander-kolodka/crestic"},
		Sidebar:            theme.Sidebar{DefaultMenuCollapseLevel: 1},
		Feedback:           FeedbackDoc{Content: "Question? An error? Give feedback →"},
		Footer:             FooterDoc{Text: `MIT 2026 © <a href="https://github.com/alexander-kolodka" target="_blank">Alexander Kolodka</a>`},
		TitleTemplate:      "%s – Crestic",
		DefaultTitle:       "Crestic",
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatJSON},
		{in: "json", want: FormatJSON},
		{in: " YAML ", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: "jsx", want: FormatJSX},
		{in: "toml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, testConfig(t)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got Document
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(wantDocument(), got); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(buf.String(), `\u003c`) {
		t.Errorf("markup should not be HTML-escaped:\n%s", buf.String())
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, testConfig(t)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got Document
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(wantDocument(), got); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestJSX(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSX, testConfig(t)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"export default {",
		"  logo: <span>Crestic</span>,",
		`  docsRepositoryBase: "https://github.com/alexander-kolodka/crestic/tree/main/docs",`,
		`    link: "https://github.com/alexander-kolodka/crestic",`,
		"    defaultMenuCollapseLevel: 1,",
		`    content: "Question? An error? Give feedback →",`,
		`    text: <span dangerouslySetInnerHTML={{ __html: "MIT 2026 © <a href=\"https://github.com/alexander-kolodka\" target=\"_blank\">Alexander Kolodka</a>" }} />,`,
		`      titleTemplate: "%s – Crestic",`,
		`      defaultTitle: "Crestic",`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses line %q:\n%s", want, out)
		}
	}
}

func TestJSXEscapesBraces(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logo = theme.TextLabel("{crestic} <docs>")

	var buf bytes.Buffer
	if err := JSX(&buf, cfg); err != nil {
		t.Fatalf("JSX() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "logo: <span>{'{'}crestic{'}'} &lt;docs&gt;</span>,") {
		t.Errorf("braces not escaped:\n%s", out)
	}
}

func TestJSXMarkupLabels(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logo = theme.HTMLLabel("<b>{crestic}</b><br>")
	cfg.Feedback.Content = theme.MarkdownLabel("Crestic <b>docs</b>  \nline two ![x](/logo.png)")

	var buf bytes.Buffer
	if err := JSX(&buf, cfg); err != nil {
		t.Fatalf("JSX() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `logo: <span dangerouslySetInnerHTML={{ __html: "<b>{crestic}</b><br>" }} />,`) {
		t.Errorf("html label should be injected as a string:\n%s", out)
	}
	if !strings.Contains(out, "content: <span dangerouslySetInnerHTML={{ __html: ") {
		t.Errorf("markdown label should be injected as a string:\n%s", out)
	}
	for _, raw := range []string{"<span>Crestic", "<br>\n", "<br />\n"} {
		if strings.Contains(out, raw) {
			t.Errorf("markup %q leaked into JSX children:\n%s", raw, out)
		}
	}
}

func TestJSXComputesUnresolvedYear(t *testing.T) {
	p, err := theme.New()
	if err != nil {
		t.Fatalf("theme.New() error = %v", err)
	}
	cfg := p.Unresolved()
	cfg.Logo = theme.TextLabel("Crestic " + theme.YearPlaceholder)

	var buf bytes.Buffer
	if err := JSX(&buf, cfg); err != nil {
		t.Fatalf("JSX() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"logo: <span>Crestic {new Date().getFullYear()}</span>,",
		`text: <span dangerouslySetInnerHTML={{ __html: "MIT " + new Date().getFullYear() + " © <a href=`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, theme.YearPlaceholder) {
		t.Errorf("placeholder left in output:\n%s", out)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, Format("xml"), testConfig(t)); err == nil {
		t.Error("Write() with unknown format should fail")
	}
}

func TestContentType(t *testing.T) {
	if !strings.HasPrefix(FormatJSON.ContentType(), "application/json") {
		t.Errorf("json content type = %q", FormatJSON.ContentType())
	}
	if !strings.HasPrefix(FormatJSX.ContentType(), "text/javascript") {
		t.Errorf("jsx content type = %q", FormatJSX.ContentType())
	}
}
