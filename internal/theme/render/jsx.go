package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/alexander-kolodka/crestic-docs/internal/theme"
)

const jsxModule = `// Code generated by crestic-docs export. DO NOT EDIT.
export default {
  logo: {{jsx .Logo}},
  docsRepositoryBase: {{js .DocsRepositoryBase}},
  project: {
    link: {{js .Project.Link}},
  },
  sidebar: {
    defaultMenuCollapseLevel: {{.Sidebar.DefaultMenuCollapseLevel}},
  },
  feedback: {
    content: {{value .Feedback.Content}},
  },
  footer: {
    text: {{jsx .Footer.Text}},
  },
  useNextSeoProps() {
    return {
      titleTemplate: {{js .TitleTemplate}},
      defaultTitle: {{js .DefaultTitle}},
    };
  },
}
`

var jsxBraces = strings.NewReplacer("{", "{'{'}", "}", "{'}'}")

// yearExpr computes the footer year in the browser. It takes the place of
// theme.YearPlaceholder in configurations that were not resolved.
const yearExpr = "new Date().getFullYear()"

var jsxTemplate = template.Must(template.New("theme.config.jsx").Funcs(template.FuncMap{
	"js":    jsString,
	"jsx":   jsxElement,
	"value": jsValue,
}).Parse(jsxModule))

// JSX writes c as a theme module default-exporting the theme object. Labels
// still holding theme.YearPlaceholder get the year computed at render time.
func JSX(w io.Writer, c theme.Config) error {
	if err := jsxTemplate.Execute(w, c); err != nil {
		return fmt.Errorf("render jsx: %w", err)
	}
	return nil
}

// jsString quotes s as a JavaScript string literal. A JSON string is one.
func jsString(s string) (string, error) {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// jsConcat quotes s, joining the parts around the year placeholder with
// the year expression.
func jsConcat(s string) (string, error) {
	parts := strings.Split(s, theme.YearPlaceholder)
	quoted := make([]string, len(parts))
	for i, part := range parts {
		q, err := jsString(part)
		if err != nil {
			return "", err
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " + "+yearExpr+" + "), nil
}

// jsxElement renders a label as a span. Text is escaped markup and stays a
// JSX child, with braces emitted as string expressions. HTML is not JSX, so
// markup labels are injected as a string.
func jsxElement(l theme.Label) (string, error) {
	markup := string(l.Markup())
	if l.Kind == theme.KindText || l.Kind == "" {
		parts := strings.Split(markup, theme.YearPlaceholder)
		for i, part := range parts {
			parts[i] = jsxBraces.Replace(part)
		}
		return "<span>" + strings.Join(parts, "{"+yearExpr+"}") + "</span>", nil
	}

	inner, err := jsConcat(markup)
	if err != nil {
		return "", err
	}
	return "<span dangerouslySetInnerHTML={{ __html: " + inner + " }} />", nil
}

// jsValue keeps text labels as plain strings.
func jsValue(l theme.Label) (string, error) {
	if l.Kind == theme.KindText || l.Kind == "" {
		return jsConcat(l.Source)
	}
	return jsxElement(l)
}
