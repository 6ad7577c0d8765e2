package rest

import (
	"net/http"

	"modora-be/internal/middleware"
	"modora-be/internal/user"

	"github.com/gin-gonic/gin"
)

const accessTokenCookie = "access_token"

type UserHandler struct {
	svc       user.Service
	appEnv    string
	cookieTTL int
}

func NewUserHandler(svc user.Service, appEnv string) *UserHandler {
	return &UserHandler{
		svc:       svc,
		appEnv:    appEnv,
		cookieTTL: 24 * 60 * 60,
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

type authResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

func (h *UserHandler) setAuthCookie(c *gin.Context, token string) {
	secure := h.appEnv == "production"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, token, h.cookieTTL, "/", "", secure, true)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	token, u, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusCreated, authResponse{Token: token, User: u})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	token, u, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusOK, authResponse{Token: token, User: u})
}

func (h *UserHandler) Logout(c *gin.Context) {
	secure := h.appEnv == "production"
	c.SetCookie(accessTokenCookie, "", -1, "/", "", secure, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	u, err := h.svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// -- Admin operations --

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	u, err := h.svc.CreateUser(c.Request.Context(), req.Name, req.Email, req.Password, user.Role(req.Role))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, u)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	params := user.UpdateUserParams{Name: req.Name, Email: req.Email}
	if req.Role != nil {
		role := user.Role(*req.Role)
		params.Role = &role
	}

	u, err := h.svc.Update(c.Request.Context(), id, params)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
