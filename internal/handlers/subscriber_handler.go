package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelierlibre/paroisse-api/internal/response"
	"github.com/atelierlibre/paroisse-api/internal/services"
)

// SubscriberHandler exposes newsletter subscription management.
type SubscriberHandler struct {
	subscriberService *services.SubscriberService
}

// NewSubscriberHandler creates a new subscriber handler
func NewSubscriberHandler(subscriberService *services.SubscriberService) *SubscriberHandler {
	return &SubscriberHandler{subscriberService: subscriberService}
}

type SubscribeRequest struct {
	FullName string `json:"nom_complet"`
	Email    string `json:"email" binding:"required,email"`
}

// Subscribe handles POST /api/abonnes
func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "requête invalide: "+err.Error())
		return
	}

	sub, err := h.subscriberService.Subscribe(req.FullName, req.Email)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "abonnement enregistré", sub)
}

type UnsubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Unsubscribe handles POST /api/abonnes/desabonnement
func (h *SubscriberHandler) Unsubscribe(c *gin.Context) {
	var req UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "requête invalide: "+err.Error())
		return
	}

	sub, err := h.subscriberService.Unsubscribe(req.Email)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "désabonnement effectué", sub)
}
