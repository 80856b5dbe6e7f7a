package web

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chaitanyauthale5/portfolio/internal/particles"
	"github.com/chaitanyauthale5/portfolio/internal/typewriter"
)

// getPortfolio handles GET /api/portfolio
func (s *Server) getPortfolio(c *gin.Context) {
	c.JSON(http.StatusOK, s.opts.Portfolio)
}

// getHeroParticles handles GET /api/particles/hero
func (s *Server) getHeroParticles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"twinkles": particles.Twinkles(particles.HeroTwinkleCount)})
}

// getProjectBubbles handles GET /api/projects/{index}/bubbles
func (s *Server) getProjectBubbles(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid project index")
		return
	}
	project, err := s.opts.Portfolio.Project(index)
	if err != nil {
		respondError(c, http.StatusNotFound, "Project not found")
		return
	}

	count := clamp(parseIntParam(c, "count", particles.ProjectBubbleCount), 1, 200)
	c.JSON(http.StatusOK, gin.H{
		"index":   index,
		"title":   project.Title,
		"bubbles": particles.Bubbles(index, count),
	})
}

// getSkillFill handles GET /api/skills/fill
func (s *Server) getSkillFill(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": skillViews(s.opts.Portfolio)})
}

// streamRoles sends typewriter frames as server-sent events until the
// client leaves or the rotation finishes.
func (s *Server) streamRoles(c *gin.Context) {
	frames := typewriter.Stream(c.Request.Context(), s.opts.Portfolio.Hero.Roles, s.opts.Typewriter, s.opts.StreamTick)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		f, ok := <-frames
		if !ok {
			return false
		}
		c.SSEvent("role", f)
		return !f.Done
	})
}

// parseIntParam parses an integer query parameter with a default value
func parseIntParam(c *gin.Context, name string, defaultVal int) int {
	val := c.Query(name)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// clamp limits a value to a range
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
