package delivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

// Response is the wire envelope every endpoint uses:
// {success, message?, data?, error?, pagination?}.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Pages  int `json:"pages"`
}

func NewPagination(total, limit, offset int) *Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Pagination{Total: total, Limit: limit, Offset: offset, Pages: pages}
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func PaginatedResponse(c *gin.Context, data interface{}, pagination *Pagination) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   message,
	})
}

// FailFromError maps a domain error to a status code and body. Business-rule
// and validation failures carry their own client-facing text; anything else
// is a storage fault and the client only sees a generic message.
func FailFromError(c *gin.Context, err error, genericMessage string) {
	switch {
	case domain.IsBusinessError(err):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, genericMessage)
	case errors.Is(err, domain.ErrInvalidCredentials):
		ErrorResponse(c, http.StatusUnauthorized, "Credenciales inválidas")
	case errors.Is(err, domain.ErrEmailTaken):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, genericMessage)
	}
}
