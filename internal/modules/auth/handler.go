package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/portal-space/core/internal/middleware"
	"github.com/portal-space/core/internal/pkg/response"
)

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateUserDTO struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"     binding:"required"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/auth")

	g.POST("/login", h.login)

	a := g.Group("", authMW)
	a.GET("/whoami", h.whoami)
	a.POST("/users", adminMW, h.createUser)
}

// POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), dto.Username, dto.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "login ok", gin.H{"token": token, "user": user})
}

// GET /auth/whoami
func (h *Handler) whoami(c *gin.Context) {
	user, err := h.svc.Whoami(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", user)
}

// POST /auth/users
func (h *Handler) createUser(c *gin.Context) {
	var dto CreateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), dto.Username, dto.Name, dto.Password, dto.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "user created", user)
}
