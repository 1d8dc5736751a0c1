package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelierlibre/paroisse-api/internal/domain/common"
)

// Response representa la estructura estándar de respuesta de la API
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse representa una respuesta de error
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
}

// SuccessResponse envía una respuesta exitosa
func SuccessResponse(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseWithMessage envía una respuesta de error con mensaje personalizado
func ErrorResponseWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    status,
	})
}

// BadRequestError envía un error 400
func BadRequestError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusBadRequest, message)
}

// NotFoundError envía un error 404
func NotFoundError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusNotFound, message)
}

// InternalServerError envía un error 500
func InternalServerError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusInternalServerError, message)
}

// UnauthorizedError envía un error 401
func UnauthorizedError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusUnauthorized, message)
}

// ForbiddenError envía un error 403
func ForbiddenError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusForbidden, message)
}

// ConflictError envía un error 409
func ConflictError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusConflict, message)
}

// DomainError mapea un error de dominio a la respuesta HTTP correspondiente.
// Los errores desconocidos se tratan como errores de servidor.
func DomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		BadRequestError(c, err.Error())
	case errors.Is(err, common.ErrInvalidState):
		BadRequestError(c, err.Error())
	case errors.Is(err, common.ErrCapacityExceeded):
		BadRequestError(c, "nombre de places atteint")
	case errors.Is(err, common.ErrForbidden):
		ForbiddenError(c, err.Error())
	case errors.Is(err, common.ErrNotFound):
		NotFoundError(c, err.Error())
	case errors.Is(err, common.ErrConflict):
		ConflictError(c, err.Error())
	default:
		InternalServerError(c, "Erreur serveur")
	}
}
