package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/middleware"
)

type AuthHandler struct {
	useCase domain.UserUseCase
	log     *logrus.Logger
}

func NewAuthHandler(uc domain.UserUseCase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter, requireAuth gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/registro", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/perfil", requireAuth, h.Profile)
		auth.PUT("/perfil", requireAuth, h.UpdateProfile)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var request domain.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.log.Warnf("Failed to bind register body: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	result, err := h.useCase.Register(&request)
	if err != nil {
		h.log.Warnf("Registration failed: %v", err)
		FailFromError(c, err, "Error al registrar usuario")
		return
	}

	SuccessResponse(c, http.StatusCreated, "Usuario registrado exitosamente", result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		h.log.Warnf("Failed to bind login body: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	result, err := h.useCase.Login(request.Email, request.Password)
	if err != nil {
		h.log.Warnf("Login failed for %s: %v", request.Email, err)
		FailFromError(c, err, "Error al iniciar sesión")
		return
	}

	SuccessResponse(c, http.StatusOK, "", result)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.useCase.GetProfile(middleware.UserID(c))
	if err != nil {
		h.log.Warnf("Failed to get profile: %v", err)
		FailFromError(c, err, "Usuario no encontrado")
		return
	}
	SuccessResponse(c, http.StatusOK, "", user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var update domain.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.log.Warnf("Failed to bind profile update: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	if err := h.useCase.UpdateProfile(middleware.UserID(c), update); err != nil {
		h.log.Warnf("Failed to update profile: %v", err)
		FailFromError(c, err, "Error al actualizar perfil")
		return
	}

	SuccessResponse(c, http.StatusOK, "Perfil actualizado exitosamente", nil)
}
