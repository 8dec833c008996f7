package theme

// Overrides replaces parts of the built-in configuration. Nil fields keep
// the built-in value.
type Overrides struct {
	Logo               *Label            `yaml:"logo"`
	DocsRepositoryBase *string           `yaml:"docsRepositoryBase"`
	Project            ProjectOverrides  `yaml:"project"`
	Sidebar            SidebarOverrides  `yaml:"sidebar"`
	Feedback           FeedbackOverrides `yaml:"feedback"`
	Footer             FooterOverrides   `yaml:"footer"`
	SEO                SEOOverrides      `yaml:"seo"`
}

type ProjectOverrides struct {
	Link *string `yaml:"link"`
}

type SidebarOverrides struct {
	DefaultMenuCollapseLevel *int `yaml:"defaultMenuCollapseLevel"`
}

type FeedbackOverrides struct {
	Content *Label `yaml:"content"`
}

type FooterOverrides struct {
	Text *Label `yaml:"text"`
}

type SEOOverrides struct {
	TitleTemplate *string `yaml:"titleTemplate"`
	DefaultTitle  *string `yaml:"defaultTitle"`
}

// Apply returns c with the overrides applied. c itself is left untouched.
func (o Overrides) Apply(c Config) Config {
	if o.Logo != nil {
		c.Logo = *o.Logo
	}
	if o.DocsRepositoryBase != nil {
		c.DocsRepositoryBase = *o.DocsRepositoryBase
	}
	if o.Project.Link != nil {
		c.Project.Link = *o.Project.Link
	}
	if o.Sidebar.DefaultMenuCollapseLevel != nil {
		c.Sidebar.DefaultMenuCollapseLevel = *o.Sidebar.DefaultMenuCollapseLevel
	}
	if o.Feedback.Content != nil {
		c.Feedback.Content = *o.Feedback.Content
	}
	if o.Footer.Text != nil {
		c.Footer.Text = *o.Footer.Text
	}
	if o.SEO.TitleTemplate != nil {
		c.TitleTemplate = *o.SEO.TitleTemplate
	}
	if o.SEO.DefaultTitle != nil {
		c.DefaultTitle = *o.SEO.DefaultTitle
	}
	return c
}

// IsEmpty reports whether no field is overridden.
func (o Overrides) IsEmpty() bool {
	return o == Overrides{}
}
