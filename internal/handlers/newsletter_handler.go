package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelierlibre/paroisse-api/internal/logger"
	"github.com/atelierlibre/paroisse-api/internal/response"
	"github.com/atelierlibre/paroisse-api/internal/services"
)

// NewsletterHandler exposes newsletter authoring and dispatch.
type NewsletterHandler struct {
	newsletterService *services.NewsletterService
}

// NewNewsletterHandler creates a new newsletter handler
func NewNewsletterHandler(newsletterService *services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService}
}

type CreateNewsletterRequest struct {
	Subject string `json:"sujet" binding:"required"`
	Content string `json:"contenu" binding:"required"`
}

// Create handles POST /api/newsletters
func (h *NewsletterHandler) Create(c *gin.Context) {
	var req CreateNewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "requête invalide: "+err.Error())
		return
	}

	nl, err := h.newsletterService.Create(req.Subject, req.Content)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "newsletter créée", nl)
}

// List handles GET /api/newsletters
func (h *NewsletterHandler) List(c *gin.Context) {
	newsletters, err := h.newsletterService.List()
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "newsletters récupérées", newsletters)
}

// GetByID handles GET /api/newsletters/:id
func (h *NewsletterHandler) GetByID(c *gin.Context) {
	nl, err := h.newsletterService.GetByID(c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "newsletter récupérée", nl)
}

type ScheduleNewsletterRequest struct {
	ScheduledAt time.Time `json:"date_programmee" binding:"required"`
}

// Schedule handles POST /api/newsletters/:id/programmation
func (h *NewsletterHandler) Schedule(c *gin.Context) {
	var req ScheduleNewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "requête invalide: "+err.Error())
		return
	}

	nl, err := h.newsletterService.Schedule(c.Param("id"), req.ScheduledAt)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "newsletter programmée", nl)
}

// Send handles POST /api/newsletters/:id/envoi
func (h *NewsletterHandler) Send(c *gin.Context) {
	log := logger.Handler("newsletter")

	nl, report, err := h.newsletterService.Send(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}

	message := "newsletter envoyée"
	if report.Failed > 0 {
		message = "newsletter envoyée avec des échecs"
		log.Warn("Newsletter send had failures", "newsletter_id", nl.ID, "sent", report.Sent, "failed", report.Failed)
	}

	response.SuccessResponse(c, http.StatusOK, message, gin.H{
		"newsletter": nl,
		"rapport":    report,
	})
}

// ProcessScheduled handles POST /api/newsletters/traitement-programmees
func (h *NewsletterHandler) ProcessScheduled(c *gin.Context) {
	processed, err := h.newsletterService.ProcessScheduled(c.Request.Context())
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "newsletters programmées traitées", gin.H{
		"traitees": processed,
	})
}
