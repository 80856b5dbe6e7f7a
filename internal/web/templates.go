package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"
	"unicode"

	"github.com/chaitanyauthale5/portfolio/internal/contact"
	"github.com/chaitanyauthale5/portfolio/internal/content"
	"github.com/chaitanyauthale5/portfolio/internal/particles"
	"github.com/chaitanyauthale5/portfolio/internal/reveal"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed assets/*
var assets embed.FS

func assetsFS() http.FileSystem {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

var featureGlyphs = map[string]string{
	"code":   "⌨",
	"brain":  "🧠",
	"rocket": "🚀",
	"zap":    "⚡",
}

var templateFuncs = template.FuncMap{
	// Links come from the trusted content file and may use tel: or mailto:.
	"trustedURL": func(s string) template.URL { return template.URL(s) },
	"pct":        func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"px":         func(v float64) string { return fmt.Sprintf("%.2fpx", v) },
	"mul":        func(a, b int) int { return a * b },
	"days":       func(d time.Duration) int { return int(d.Hours() / 24) },
	"glyph": func(icon string) string {
		if g, ok := featureGlyphs[icon]; ok {
			return g
		}
		return "•"
	},
	"initial": func(name string) string {
		for _, r := range name {
			return string(unicode.ToUpper(r))
		}
		return "?"
	},
	"section": func(p *pageData, name string) sectionData {
		return sectionData{pageData: p, Visible: alwaysVisible(reveal.Section(name))}
	},
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// pageData is everything the page templates read.
type pageData struct {
	ViewID    string
	Title     string
	P         *content.Portfolio
	FirstRole string
	Twinkles  []particles.Twinkle
	Skills    []skillCategoryView
	Icons     []floatingIcon
	Projects  []projectCard
	Form      formView
	Year      int
}

// sectionData is one section rendered hidden or revealed.
type sectionData struct {
	*pageData
	Visible bool
}

type skillView struct {
	content.Skill
	FillDelayMs int64 `json:"fill_delay_ms"`
}

type skillCategoryView struct {
	Title  string      `json:"title"`
	Skills []skillView `json:"skills"`
}

type floatingIcon struct {
	Glyph   string
	Offset  float64
	DelayMs int
}

type projectCard struct {
	Index int
	content.Project
	Bubbles []particles.Bubble
}

// formView feeds the contact-form fragment.
type formView struct {
	Form        contact.Form
	Toast       *contact.Toast
	FieldErrors map[string]string
}

func skillViews(p *content.Portfolio) []skillCategoryView {
	out := make([]skillCategoryView, len(p.SkillCategories))
	for ci, cat := range p.SkillCategories {
		v := skillCategoryView{Title: cat.Title, Skills: make([]skillView, len(cat.Skills))}
		for si, sk := range cat.Skills {
			v.Skills[si] = skillView{Skill: sk, FillDelayMs: particles.FillDelay(ci, si).Milliseconds()}
		}
		out[ci] = v
	}
	return out
}

func (s *Server) newPageData(viewID string) *pageData {
	p := s.opts.Portfolio

	icons := make([]floatingIcon, len(p.FloatingIcons))
	for i, g := range p.FloatingIcons {
		icons[i] = floatingIcon{Glyph: g, Offset: particles.FloatOffset(i), DelayMs: i * 200}
	}

	cards := make([]projectCard, len(p.Projects))
	for i, proj := range p.Projects {
		cards[i] = projectCard{Index: i, Project: proj, Bubbles: particles.Bubbles(i, particles.ProjectBubbleCount)}
	}

	return &pageData{
		ViewID:    viewID,
		Title:     p.Owner + " | Portfolio",
		P:         p,
		FirstRole: p.Hero.Roles[0],
		Twinkles:  particles.Twinkles(particles.HeroTwinkleCount),
		Skills:    skillViews(p),
		Icons:     icons,
		Projects:  cards,
		Form:      formView{Form: contact.NewForm()},
		Year:      time.Now().Year(),
	}
}

// alwaysVisible sections have no entrance animation.
func alwaysVisible(sec reveal.Section) bool {
	return sec == reveal.Hero || sec == reveal.Profile
}
