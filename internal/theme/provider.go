package theme

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Provider hands out the theme configuration. It is immutable once built:
// applying new overrides means building a new Provider.
type Provider struct {
	base     Config
	now      func() time.Time
	revision string
}

// Option configures a Provider.
type Option func(*Provider)

// WithClock replaces the clock used to resolve the footer year.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// WithOverrides applies overrides on top of the built-in configuration.
func WithOverrides(o Overrides) Option {
	return func(p *Provider) {
		p.base = o.Apply(p.base)
	}
}

// New builds a provider from the built-in Crestic configuration and the
// given options. It fails only when overrides leave the configuration
// invalid.
func New(opts ...Option) (*Provider, error) {
	p := &Provider{
		base: Crestic(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.base.withYear("0").Validate(); err != nil {
		return nil, err
	}
	p.revision = fingerprint(p.base)
	return p, nil
}

// Default returns the provider of the built-in configuration.
func Default() *Provider {
	p, err := New()
	if err != nil {
		panic(fmt.Sprintf("built-in theme configuration is invalid: %v", err))
	}
	return p
}

// Config returns the configuration with the footer year resolved against
// the clock at call time.
func (p *Provider) Config() Config {
	c, _ := p.Snapshot()
	return c
}

// Snapshot resolves the configuration and returns the year it was resolved
// with. The clock is read once, so both agree across a New Year.
func (p *Provider) Snapshot() (Config, int) {
	year := p.now().Year()
	return p.base.withYear(strconv.Itoa(year)), year
}

// Unresolved returns the configuration with YearPlaceholder left in the
// labels, for encoders that compute the year on their own.
func (p *Provider) Unresolved() Config {
	return p.base
}

// Revision identifies the applied configuration independently of the year.
func (p *Provider) Revision() string {
	return p.revision
}

func (c Config) withYear(year string) Config {
	c.Logo = c.Logo.withYear(year)
	c.Feedback.Content = c.Feedback.Content.withYear(year)
	c.Footer.Text = c.Footer.Text.withYear(year)
	return c
}

func fingerprint(c Config) string {
	return strconv.FormatUint(xxhash.Sum64String(fmt.Sprintf("%#v", c)), 16)
}
