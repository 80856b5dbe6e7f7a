package web

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chaitanyauthale5/portfolio/internal/contact"
	"github.com/chaitanyauthale5/portfolio/internal/reveal"
)

// FirstRevealHeader reports whether a reveal request flipped the latch.
const FirstRevealHeader = "X-Reveal-First"

// home renders the full page for a new view. Every request is a fresh mount
// with all animated sections hidden.
func (s *Server) home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.newPageData(uuid.NewString()))
}

// revealSection handles the HTMX "revealed" trigger for one section.
func (s *Server) revealSection(c *gin.Context) {
	viewID := c.Param("view")
	if _, err := uuid.Parse(viewID); err != nil {
		c.String(http.StatusBadRequest, "invalid view id")
		return
	}
	section, err := reveal.ParseSection(c.Param("section"))
	if err != nil {
		c.String(http.StatusNotFound, err.Error())
		return
	}

	first, err := s.opts.Tracker.MarkRevealed(c.Request.Context(), viewID, section)
	if err != nil {
		// The reveal is cosmetic; show the section even if it was not recorded.
		log.Printf("Error recording reveal of %s for view %s: %v", section, viewID, err)
	}
	c.Header(FirstRevealHeader, strconv.FormatBool(first))
	c.HTML(http.StatusOK, "section-"+string(section), sectionData{pageData: s.newPageData(viewID), Visible: true})
}

// contactForm returns just the form HTML.
func (s *Server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-form", formView{Form: contact.NewForm()})
}

// submitContact handles the HTMX form post. The response is the form
// fragment with a toast; JSON is returned when the client asks for it.
func (s *Server) submitContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	res := s.opts.Contact.Submit(c.Request.Context(), form)

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(statusFor(res.Status), res)
		return
	}
	// HTMX only swaps 2xx responses, so failures are reported in the body.
	c.HTML(http.StatusOK, "contact-form", formView{
		Form:        res.Form,
		Toast:       &res.Toast,
		FieldErrors: res.FieldErrors,
	})
}

type contactRequest struct {
	Token   string `json:"token"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// submitContactJSON handles POST /api/contact.
func (s *Server) submitContactJSON(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name, email, subject and message are required")
		return
	}

	res := s.opts.Contact.Submit(c.Request.Context(), contact.Form{
		Token:   req.Token,
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	c.JSON(statusFor(res.Status), res)
}

func statusFor(st contact.Status) int {
	switch st {
	case contact.StatusSent:
		return http.StatusOK
	case contact.StatusInvalid:
		return http.StatusUnprocessableEntity
	case contact.StatusDuplicate:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
