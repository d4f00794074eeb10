package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block of an exported post.
type FrontMatter struct {
	ID      string
	Title   string
	Slug    string
	Summary string
	Locale  string
	Date    time.Time
	Draft   bool
	Custom  map[string]any
}

// ParseFrontMatter extracts metadata and the Markdown body from source.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return meta.frontMatter(), body, nil
}

type frontMatterEnvelope struct {
	ID      string         `yaml:"id"`
	Title   string         `yaml:"title"`
	Slug    string         `yaml:"slug"`
	Summary string         `yaml:"summary"`
	Excerpt string         `yaml:"excerpt"`
	Locale  string         `yaml:"locale"`
	Lang    string         `yaml:"lang"`
	Date    time.Time      `yaml:"date"`
	Draft   bool           `yaml:"draft"`
	Custom  map[string]any `yaml:",inline"`
}

func (env frontMatterEnvelope) frontMatter() FrontMatter {
	fm := FrontMatter{
		ID:      env.ID,
		Title:   env.Title,
		Slug:    env.Slug,
		Summary: env.Summary,
		Locale:  env.Locale,
		Date:    env.Date,
		Draft:   env.Draft,
		Custom:  maps.Clone(env.Custom),
	}
	if fm.Summary == "" {
		fm.Summary = env.Excerpt
	}
	if fm.Locale == "" {
		fm.Locale = env.Lang
	}
	if fm.Custom == nil {
		fm.Custom = map[string]any{}
	}
	return fm
}
