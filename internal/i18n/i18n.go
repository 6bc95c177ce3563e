// Package i18n localizes the dashboard's view, navigation and assistant
// strings. Translations are YAML files embedded from locales/.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLanguage is used when nothing better matches.
var DefaultLanguage = language.English

// Catalog holds every loaded translation.
type Catalog struct {
	bundle  *i18n.Bundle
	matcher language.Matcher
}

// New loads the embedded locale files.
func New() (*Catalog, error) {
	bundle := i18n.NewBundle(DefaultLanguage)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := path.Join("locales", f.Name())
		data, err := localeFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, f.Name()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}

	return &Catalog{
		bundle:  bundle,
		matcher: language.NewMatcher(bundle.LanguageTags()),
	}, nil
}

// MustNew is New that panics on error. The locales are embedded, so an
// error is a build defect.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// Languages returns the tags with translations, default first.
func (c *Catalog) Languages() []language.Tag {
	return c.bundle.LanguageTags()
}

// Match picks the supported language for preferences given as tags or
// Accept-Language values, in priority order. Empty and invalid values are
// skipped.
func (c *Catalog) Match(prefs ...string) language.Tag {
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	return c.Languages()[idx]
}

// Localizer returns a localizer for the best match of prefs.
func (c *Catalog) Localizer(prefs ...string) *Localizer {
	tag := c.Match(prefs...)
	return &Localizer{
		tag: tag,
		l:   i18n.NewLocalizer(c.bundle, tag.String()),
	}
}

// Localizer translates message IDs into one language. A nil Localizer
// returns message IDs unchanged.
type Localizer struct {
	tag language.Tag
	l   *i18n.Localizer
}

// Lang returns the BCP 47 tag of the localizer's language.
func (l *Localizer) Lang() string {
	if l == nil {
		return DefaultLanguage.String()
	}
	return l.tag.String()
}

// T translates messageID. Unknown IDs are returned as is.
func (l *Localizer) T(messageID string) string {
	return l.Tf(messageID, nil)
}

// Tf translates messageID with template data.
func (l *Localizer) Tf(messageID string, data map[string]any) string {
	if l == nil {
		return messageID
	}
	msg, err := l.l.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}

type ctxKey struct{}

// WithLocalizer returns ctx carrying l.
func WithLocalizer(ctx context.Context, l *Localizer) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the localizer stored in ctx, or nil.
func FromContext(ctx context.Context) *Localizer {
	l, _ := ctx.Value(ctxKey{}).(*Localizer)
	return l
}
