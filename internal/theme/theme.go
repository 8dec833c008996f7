// Package theme holds the theme configuration of the Crestic documentation
// site: branding, repository links, sidebar behavior, the feedback prompt,
// the footer and the page title template.
package theme

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// YearPlaceholder is replaced by the current calendar year whenever a
// configuration is produced.
const YearPlaceholder = "{{year}}"

// TitleSlot is the substitution slot of a title template.
const TitleSlot = "%s"

var (
	ErrInvalidConfig   = errors.New("invalid theme configuration")
	ErrInvalidPagePath = errors.New("invalid page path")
)

// Project links the site to the source repository.
type Project struct {
	Link string `json:"link" yaml:"link"`
}

// Sidebar controls the navigation tree.
type Sidebar struct {
	DefaultMenuCollapseLevel int `json:"defaultMenuCollapseLevel" yaml:"defaultMenuCollapseLevel"`
}

// Feedback is the prompt of the feedback widget.
type Feedback struct {
	Content Label `json:"content" yaml:"content"`
}

// Footer is rendered at the bottom of every page.
type Footer struct {
	Text Label `json:"text" yaml:"text"`
}

// Config is the theme configuration consumed by the documentation
// framework. It holds values only, so a copy never shares state with the
// provider that produced it.
type Config struct {
	Logo               Label    `json:"logo" yaml:"logo"`
	DocsRepositoryBase string   `json:"docsRepositoryBase" yaml:"docsRepositoryBase"`
	Project            Project  `json:"project" yaml:"project"`
	Sidebar            Sidebar  `json:"sidebar" yaml:"sidebar"`
	Feedback           Feedback `json:"feedback" yaml:"feedback"`
	Footer             Footer   `json:"footer" yaml:"footer"`
	TitleTemplate      string   `json:"titleTemplate" yaml:"titleTemplate"`
	DefaultTitle       string   `json:"defaultTitle" yaml:"defaultTitle"`
}

// Crestic returns the built-in configuration of the Crestic site with the
// footer year still unresolved.
func Crestic() Config {
	return Config{
		Logo:               TextLabel("Crestic"),
		DocsRepositoryBase: "https://github.com/alexander-kolodka/crestic/tree/main/docs",
		Project: Project{
			Link: "https://github.com/alexander-kolodka/crestic",
		},
		Sidebar: Sidebar{
			DefaultMenuCollapseLevel: 1,
		},
		Feedback: Feedback{
			Content: TextLabel("Question? An error? Give feedback →"),
		},
		Footer: Footer{
			Text: HTMLLabel(`MIT ` + YearPlaceholder + ` © <a href="https://github.com/alexander-kolodka" target="_blank">Alexander Kolodka</a>`),
		},
		TitleTemplate: TitleSlot + " – Crestic",
		DefaultTitle:  "Crestic",
	}
}

// Title formats the browser title of a page. A blank page title falls back
// to the default title.
func (c Config) Title(page string) string {
	page = strings.TrimSpace(page)
	if page == "" {
		return c.DefaultTitle
	}
	// Replace rather than Sprintf: page titles may contain '%'.
	return strings.Replace(c.TitleTemplate, TitleSlot, page, 1)
}

// EditURL builds the "edit this page" link of a page path relative to the
// docs directory, e.g. "pages/getting-started.mdx".
func (c Config) EditURL(pagePath string) (string, error) {
	// Routers may hand over the escaped form, so "%2e%2e" is checked as "..".
	p, err := url.PathUnescape(pagePath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPagePath, err)
	}
	p = strings.Trim(strings.ReplaceAll(p, `\`, "/"), "/")
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPagePath)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q escapes the docs directory", ErrInvalidPagePath, pagePath)
		}
	}

	base, err := url.Parse(c.DocsRepositoryBase)
	if err != nil {
		return "", fmt.Errorf("parse docs repository base: %w", err)
	}
	return base.JoinPath(p).String(), nil
}

// FeedbackURL links to a new issue in the project repository, titled after
// the page the reader left feedback on.
func (c Config) FeedbackURL(pageTitle string) string {
	pageTitle = strings.TrimSpace(pageTitle)
	if pageTitle == "" {
		pageTitle = c.DefaultTitle
	}

	q := url.Values{}
	q.Set("title", fmt.Sprintf("Feedback for “%s”", pageTitle))
	q.Set("labels", "feedback")
	return strings.TrimSuffix(c.Project.Link, "/") + "/issues/new?" + q.Encode()
}

// Validate reports every problem of the configuration at once.
func (c Config) Validate() error {
	var errs []error

	if err := c.Logo.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logo: %w", err))
	}
	if err := validateURL(c.DocsRepositoryBase); err != nil {
		errs = append(errs, fmt.Errorf("docsRepositoryBase: %w", err))
	}
	if err := validateURL(c.Project.Link); err != nil {
		errs = append(errs, fmt.Errorf("project.link: %w", err))
	}
	if c.Sidebar.DefaultMenuCollapseLevel < 0 {
		errs = append(errs, fmt.Errorf("sidebar.defaultMenuCollapseLevel must be >= 0, got %d", c.Sidebar.DefaultMenuCollapseLevel))
	}
	if err := c.Feedback.Content.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("feedback.content: %w", err))
	}
	if err := c.Footer.Text.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("footer.text: %w", err))
	}
	if n := strings.Count(c.TitleTemplate, TitleSlot); n != 1 {
		errs = append(errs, fmt.Errorf("titleTemplate must contain exactly one %s slot, found %d", TitleSlot, n))
	}
	if strings.TrimSpace(c.DefaultTitle) == "" {
		errs = append(errs, errors.New("defaultTitle is empty"))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
