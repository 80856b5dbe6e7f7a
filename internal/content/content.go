// Package content holds the display literals rendered by the portfolio page:
// hero roles, about text, skill levels, projects and contact details.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultYAML []byte

// Portfolio is everything the page shows.
type Portfolio struct {
	Owner           string          `yaml:"owner" json:"owner"`
	Hero            Hero            `yaml:"hero" json:"hero"`
	About           About           `yaml:"about" json:"about"`
	SkillCategories []SkillCategory `yaml:"skill_categories" json:"skill_categories"`
	FloatingIcons   []string        `yaml:"floating_icons" json:"floating_icons"`
	Projects        []Project       `yaml:"projects" json:"projects"`
	ProjectsURL     string          `yaml:"projects_url" json:"projects_url,omitempty"`
	Contact         Contact         `yaml:"contact" json:"contact"`
	Profile         Profile         `yaml:"profile" json:"profile"`
}

type Hero struct {
	Tagline    string       `yaml:"tagline" json:"tagline"`
	Roles      []string     `yaml:"roles" json:"roles"`
	ResumePath string       `yaml:"resume_path" json:"resume_path"`
	Socials    []SocialLink `yaml:"socials" json:"socials"`
}

type About struct {
	Headline   string    `yaml:"headline" json:"headline"`
	Paragraphs []string  `yaml:"paragraphs" json:"paragraphs"`
	Tags       []string  `yaml:"tags" json:"tags"`
	Features   []Feature `yaml:"features" json:"features"`
}

// Feature is one of the about-section cards. Icon is a short name the
// template maps to a glyph.
type Feature struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
}

type SkillCategory struct {
	Title  string  `yaml:"title" json:"title"`
	Skills []Skill `yaml:"skills" json:"skills"`
}

// Skill is a named proficiency. Level is a percentage in [0,100] and Color a
// CSS hex color used for the bar.
type Skill struct {
	Name  string `yaml:"name" json:"name"`
	Level int    `yaml:"level" json:"level"`
	Color string `yaml:"color" json:"color"`
}

// Project represents a portfolio project card.
type Project struct {
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	Gradient     string   `yaml:"gradient" json:"gradient"`
	Featured     bool     `yaml:"featured" json:"featured"`
	LiveURL      string   `yaml:"live_url" json:"live_url,omitempty"`
	SourceURL    string   `yaml:"source_url" json:"source_url,omitempty"`
}

type Contact struct {
	Intro   string        `yaml:"intro" json:"intro"`
	Info    []ContactInfo `yaml:"info" json:"info"`
	Socials []SocialLink  `yaml:"socials" json:"socials"`
}

type ContactInfo struct {
	Title string `yaml:"title" json:"title"`
	Value string `yaml:"value" json:"value"`
	Href  string `yaml:"href" json:"href"`
}

type SocialLink struct {
	Label  string `yaml:"label" json:"label"`
	Href   string `yaml:"href" json:"href"`
	Target string `yaml:"target" json:"target,omitempty"`
}

type Profile struct {
	Name      string `yaml:"name" json:"name"`
	ImagePath string `yaml:"image_path" json:"image_path,omitempty"`
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Load decodes and validates a YAML portfolio.
func Load(r io.Reader) (*Portfolio, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Portfolio
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode portfolio: empty document")
		}
		return nil, fmt.Errorf("decode portfolio: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFile reads a portfolio override from disk.
func LoadFile(path string) (*Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open portfolio %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the embedded portfolio. It panics if the embedded file is
// invalid, which the package tests rule out.
func Default() *Portfolio {
	p, err := Load(bytes.NewReader(defaultYAML))
	if err != nil {
		panic("embedded content.yaml: " + err.Error())
	}
	return p
}

// Validate checks the few invariants the page relies on.
func (p *Portfolio) Validate() error {
	if strings.TrimSpace(p.Owner) == "" {
		return fmt.Errorf("owner is required")
	}
	if len(p.Hero.Roles) == 0 {
		return fmt.Errorf("hero needs at least one role")
	}
	for i, role := range p.Hero.Roles {
		if strings.TrimSpace(role) == "" {
			return fmt.Errorf("hero role %d is blank", i)
		}
	}
	for _, cat := range p.SkillCategories {
		for _, s := range cat.Skills {
			if s.Level < 0 || s.Level > 100 {
				return fmt.Errorf("skill %q in %q: level %d out of range [0,100]", s.Name, cat.Title, s.Level)
			}
			if !hexColor.MatchString(s.Color) {
				return fmt.Errorf("skill %q in %q: invalid color %q", s.Name, cat.Title, s.Color)
			}
		}
	}
	for i, proj := range p.Projects {
		if strings.TrimSpace(proj.Title) == "" {
			return fmt.Errorf("project %d has no title", i)
		}
	}
	return nil
}

// Project returns the project card at index.
func (p *Portfolio) Project(index int) (*Project, error) {
	if index < 0 || index >= len(p.Projects) {
		return nil, fmt.Errorf("project not found: %d", index)
	}
	return &p.Projects[index], nil
}
