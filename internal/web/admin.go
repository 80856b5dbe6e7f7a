package web

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const adminCookie = "admin_token"

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// adminAuthMiddleware checks the admin cookie.
func (s *Server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !constantTimeEqual(token, s.adminToken) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) adminEnabled() bool {
	return s.opts.AdminUsername != "" && s.opts.AdminPassword != "" && s.opts.Store != nil
}

// setupAdminRoutes registers the privacy page and the dashboard.
func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"owner":     s.opts.Portfolio.Owner,
			"retention": s.opts.VisitorRetention,
		})
	})

	if !s.adminEnabled() {
		return
	}
	log.Printf("Admin access available at: /admin/login")

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		userOK := constantTimeEqual(username, s.opts.AdminUsername)
		passOK := constantTimeEqual(password, s.opts.AdminPassword)
		if userOK && passOK {
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", !s.opts.Debug, true)
			log.Printf("Admin login successful from %s", s.hashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		log.Printf("Failed admin login attempt from %s", s.hashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", !s.opts.Debug, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuthMiddleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.opts.Store.Stats(c.Request.Context())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"title": "Dashboard", "stats": stats})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.opts.Store.Stats(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to load statistics")
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/submissions", func(c *gin.Context) {
		subs, err := s.opts.Contact.Recent(c.Request.Context(), 200)
		if err != nil {
			log.Printf("Error loading submissions: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load submissions"})
			return
		}
		c.HTML(http.StatusOK, "admin-submissions.html", gin.H{"title": "Submissions", "submissions": subs})
	})

	admin.POST("/privacy/prune", func(c *gin.Context) {
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			s.PruneVisitors(ctx)
		}()
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.opts.Store.Stats(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to load statistics")
			return
		}
		c.Header("Content-Disposition", "attachment; filename=portfolio-stats.json")
		log.Printf("Admin stats exported by %s", s.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}
