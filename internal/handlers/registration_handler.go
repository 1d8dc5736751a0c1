package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelierlibre/paroisse-api/internal/middleware"
	"github.com/atelierlibre/paroisse-api/internal/response"
	"github.com/atelierlibre/paroisse-api/internal/services"
)

// RegistrationHandler exposes event registration for members and visitors.
type RegistrationHandler struct {
	registrationService *services.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrationService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

type RegisterRequest struct {
	FullName string `json:"nom_complet"`
	Email    string `json:"email"`
	Sex      string `json:"sexe"`
	Phone    string `json:"telephone"`
}

// RegisterByID handles POST /api/evenements/:id/inscription
func (h *RegistrationHandler) RegisterByID(c *gin.Context) {
	h.register(c, services.RegisterInput{EventID: c.Param("id")})
}

// RegisterBySlug handles POST /api/evenements/slug/:slug/inscription
func (h *RegistrationHandler) RegisterBySlug(c *gin.Context) {
	h.register(c, services.RegisterInput{Slug: c.Param("slug")})
}

// ListByEvent handles GET /api/evenements/:id/inscriptions
func (h *RegistrationHandler) ListByEvent(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.UnauthorizedError(c, "authentification requise")
		return
	}

	regs, err := h.registrationService.ListForEvent(c.Param("id"), actor)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "inscriptions récupérées", gin.H{
		"inscriptions": regs,
	})
}

// Remove handles DELETE /api/evenements/:id/inscriptions/:inscriptionId
func (h *RegistrationHandler) Remove(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.UnauthorizedError(c, "authentification requise")
		return
	}

	if err := h.registrationService.Remove(c.Param("id"), c.Param("inscriptionId"), actor); err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "inscription supprimée", nil)
}

func (h *RegistrationHandler) register(c *gin.Context, in services.RegisterInput) {
	// Authenticated members may send an empty body, their account fills
	// in the registration details.
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequestError(c, "requête invalide: "+err.Error())
		return
	}

	in.UserID = c.GetString(middleware.ContextUserID)
	in.FullName = req.FullName
	in.Email = req.Email
	in.Sex = req.Sex
	in.Phone = req.Phone

	reg, err := h.registrationService.Register(in)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "inscription confirmée", gin.H{
		"inscription": reg,
	})
}
