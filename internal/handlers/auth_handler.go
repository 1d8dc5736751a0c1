package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelierlibre/paroisse-api/internal/response"
	"github.com/atelierlibre/paroisse-api/internal/services"
)

// AuthHandler exposes account registration and login.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterAccountRequest struct {
	FullName string `json:"nom_complet" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"mot_de_passe" binding:"required"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "requête invalide: "+err.Error())
		return
	}

	u, err := h.authService.Register(req.FullName, req.Email, req.Password)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "compte créé", u)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"mot_de_passe" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "requête invalide: "+err.Error())
		return
	}

	token, u, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.UnauthorizedError(c, "identifiants invalides")
			return
		}
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "connexion réussie", gin.H{
		"token":       token,
		"utilisateur": u,
	})
}
