package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atelierlibre/paroisse-api/internal/logger"
	"github.com/atelierlibre/paroisse-api/internal/middleware"
	"github.com/atelierlibre/paroisse-api/internal/response"
	"github.com/atelierlibre/paroisse-api/internal/services"
)

// EventHandler exposes the event CRUD surface.
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type CreateEventRequest struct {
	Title       string   `json:"titre" binding:"required"`
	Description string   `json:"description"`
	Location    string   `json:"lieu"`
	EventDate   string   `json:"date_evenement" binding:"required"`
	StartTime   string   `json:"heure_debut"`
	EndTime     string   `json:"heure_fin"`
	Capacity    int      `json:"nombre_places" binding:"required"`
	Status      string   `json:"statut"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
}

// Create handles POST /api/evenements
func (h *EventHandler) Create(c *gin.Context) {
	log := logger.Handler("event")

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "requête invalide: "+err.Error())
		return
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		response.BadRequestError(c, "date_evenement invalide, format attendu AAAA-MM-JJ")
		return
	}

	creatorID, err := currentUserID(c)
	if err != nil {
		response.UnauthorizedError(c, "authentification requise")
		return
	}

	ev, report, err := h.eventService.Create(c.Request.Context(), services.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ImageURL:    req.ImageURL,
		Tags:        req.Tags,
		Capacity:    req.Capacity,
		EventDate:   eventDate,
		Status:      req.Status,
		CreatorID:   creatorID,
	})
	if err != nil {
		response.DomainError(c, err)
		return
	}

	message := "événement créé"
	if report.Failed > 0 || report.Aborted {
		// The event exists even when the notification fan-out stopped early.
		message = "événement créé, notification non envoyée à tous les abonnés"
		log.Warn("Notification fan-out incomplete", "event_id", ev.ID, "failed", report.Failed, "aborted", report.Aborted)
	}

	response.SuccessResponse(c, http.StatusCreated, message, ev)
}

// List handles GET /api/evenements with optional statut and tag filters.
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventService.List(c.Query("statut"), c.Query("tag"))
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "événements récupérés", events)
}

// GetByID handles GET /api/evenements/:id
func (h *EventHandler) GetByID(c *gin.Context) {
	ev, err := h.eventService.GetByID(c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "événement récupéré", ev)
}

// GetBySlug handles GET /api/evenements/slug/:slug
func (h *EventHandler) GetBySlug(c *gin.Context) {
	ev, err := h.eventService.GetBySlug(c.Param("slug"))
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "événement récupéré", ev)
}

type UpdateEventRequest struct {
	Title       string   `json:"titre" binding:"required"`
	Description string   `json:"description"`
	Location    string   `json:"lieu"`
	EventDate   string   `json:"date_evenement" binding:"required"`
	StartTime   string   `json:"heure_debut"`
	EndTime     string   `json:"heure_fin"`
	Capacity    int      `json:"nombre_places" binding:"required"`
	Status      string   `json:"statut"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
}

// Update handles PUT /api/evenements/:id
func (h *EventHandler) Update(c *gin.Context) {
	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "requête invalide: "+err.Error())
		return
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		response.BadRequestError(c, "date_evenement invalide, format attendu AAAA-MM-JJ")
		return
	}

	actor, err := currentActor(c)
	if err != nil {
		response.UnauthorizedError(c, "authentification requise")
		return
	}

	ev, err := h.eventService.Update(c.Param("id"), actor, services.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ImageURL:    req.ImageURL,
		Tags:        req.Tags,
		Capacity:    req.Capacity,
		EventDate:   eventDate,
		Status:      req.Status,
	})
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "événement mis à jour", ev)
}

// Cancel handles DELETE /api/evenements/:id
func (h *EventHandler) Cancel(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		response.UnauthorizedError(c, "authentification requise")
		return
	}

	if err := h.eventService.Cancel(c.Param("id"), actor); err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "événement annulé", nil)
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetString(middleware.ContextUserID)
	return uuid.Parse(raw)
}

// currentActor builds the acting identity from the auth middleware context.
func currentActor(c *gin.Context) (services.Actor, error) {
	id, err := currentUserID(c)
	if err != nil {
		return services.Actor{}, err
	}
	return services.Actor{UserID: id, Role: c.GetString(middleware.ContextRole)}, nil
}
