// Package web serves the portfolio page, the contact relay endpoints and the
// small admin dashboard.
package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chaitanyauthale5/portfolio/internal/contact"
	"github.com/chaitanyauthale5/portfolio/internal/content"
	"github.com/chaitanyauthale5/portfolio/internal/platform/timeouts"
	"github.com/chaitanyauthale5/portfolio/internal/reveal"
	"github.com/chaitanyauthale5/portfolio/internal/storage/sqlite"
	"github.com/chaitanyauthale5/portfolio/internal/typewriter"
)

// SiteStore is the storage the dashboard and visitor tracking need.
type SiteStore interface {
	RecordVisit(ctx context.Context, v sqlite.Visit) error
	PruneVisitors(ctx context.Context, olderThan time.Time) (int64, error)
	Stats(ctx context.Context) (*sqlite.Stats, error)
	Ping(ctx context.Context) error
}

// Options wires the server's collaborators.
type Options struct {
	Portfolio *content.Portfolio
	Contact   *contact.Service
	Tracker   reveal.Tracker
	// Store is optional; without it visitor tracking and the dashboard are off.
	Store SiteStore

	StaticDir  string
	ResumePath string

	AdminUsername string
	AdminPassword string

	VisitorRetention time.Duration
	Typewriter       typewriter.Config
	StreamTick       time.Duration
	Debug            bool
}

// Server holds the gin engine and per-process secrets.
type Server struct {
	opts   Options
	engine *gin.Engine

	adminToken  string
	hashingSalt string

	bg sync.WaitGroup
}

// New validates opts and builds the router.
func New(opts Options) (*Server, error) {
	if opts.Portfolio == nil {
		return nil, errors.New("portfolio content is required")
	}
	if opts.Contact == nil {
		return nil, errors.New("contact service is required")
	}
	if opts.Tracker == nil {
		return nil, errors.New("reveal tracker is required")
	}
	if opts.Typewriter == (typewriter.Config{}) {
		opts.Typewriter = typewriter.DefaultConfig()
	}
	if opts.StreamTick <= 0 {
		opts.StreamTick = timeouts.StreamTick
	}

	s := &Server{
		opts:        opts,
		adminToken:  randomToken(),
		hashingSalt: randomToken(),
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	s.engine = s.routes(tmpl)
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Wait blocks until background writes (visitor tracking, pruning) finish.
func (s *Server) Wait() {
	s.bg.Wait()
}

// ListenAndServe runs the HTTP server until the context ends, then waits
// for background writes.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	serveErr := make(chan error, 1)
	log.Printf("Starting server on %s", addr)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := httpServer.Shutdown(shutdownCtx)
		cancel()
		s.Wait()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

func (s *Server) routes(tmpl *template.Template) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(tmpl)
	r.Use(s.visitorTrackingMiddleware())

	r.StaticFS("/assets", assetsFS())
	if s.opts.StaticDir != "" {
		r.Static("/static", s.opts.StaticDir)
	}
	if s.opts.ResumePath != "" {
		r.StaticFile("/resume.pdf", s.opts.ResumePath)
	}

	// Home page route
	r.GET("/", s.home)
	r.POST("/views/:view/sections/:section/reveal", s.revealSection)

	// HTMX contact form endpoints
	r.GET("/contact-form", s.contactForm)
	r.POST("/contact", s.submitContact)

	r.GET("/hero/roles/stream", s.streamRoles)

	api := r.Group("/api")
	api.GET("/portfolio", s.getPortfolio)
	api.GET("/particles/hero", s.getHeroParticles)
	api.GET("/projects/:index/bubbles", s.getProjectBubbles)
	api.GET("/skills/fill", s.getSkillFill)
	api.POST("/contact", s.submitContactJSON)

	r.GET("/healthz", s.healthz)

	s.setupAdminRoutes(r)
	return r
}

func (s *Server) healthz(c *gin.Context) {
	if s.opts.Store != nil {
		if err := s.opts.Store.Ping(c.Request.Context()); err != nil {
			log.Printf("Health check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("generate token: %v", err))
	}
	return hex.EncodeToString(b)
}
