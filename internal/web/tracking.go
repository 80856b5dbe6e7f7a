package web

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chaitanyauthale5/portfolio/internal/storage/sqlite"
)

const visitWriteTimeout = 5 * time.Second

// untrackedPrefixes are never recorded as page views.
var untrackedPrefixes = []string{
	"/static/", "/assets/", "/images/", "/admin/", "/favicon", "/privacy",
	"/api/", "/views/", "/hero/", "/healthz", "/contact", "/resume.pdf",
}

// hashIP hashes an address with the per-process salt (consistent per IP
// until restart).
func (s *Server) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + s.hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// visitorTrackingMiddleware records page views with hashed IPs.
func (s *Server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.Store == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		visit := sqlite.Visit{
			HashedIP:  s.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: time.Now(),
		}
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), visitWriteTimeout)
			defer cancel()
			if err := s.opts.Store.RecordVisit(ctx, visit); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}

// PruneVisitors removes visitor records past the retention window.
func (s *Server) PruneVisitors(ctx context.Context) {
	if s.opts.Store == nil || s.opts.VisitorRetention <= 0 {
		return
	}
	removed, err := s.opts.Store.PruneVisitors(ctx, time.Now().Add(-s.opts.VisitorRetention))
	if err != nil {
		log.Printf("Error cleaning up old visitor data: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Privacy cleanup: Removed %d visitor records older than %s", removed, s.opts.VisitorRetention)
	}
}
