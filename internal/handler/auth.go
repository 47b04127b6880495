package handler

import (
	"errors"
	"net/http"
	"strings"

	"carprice/internal/model"
	"carprice/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles login, registration and logout pages
type AuthHandler struct {
	auth     *service.AuthService
	sessions *SessionMiddleware
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, sessions *SessionMiddleware) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// Index handles GET /
func (h *AuthHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Error": "", "Username": ""})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": service.ErrInvalidCredentials.Error(), "Username": req.Username})
		return
	}

	if err := h.auth.Authenticate(req.Username, req.Password); err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error":    err.Error(),
			"Username": req.Username,
		})
		return
	}

	h.sessions.start(c, strings.TrimSpace(req.Username))
	c.Redirect(http.StatusFound, "/home")
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Error": "", "Username": ""})
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": service.ErrEmptyCredentials.Error(), "Username": req.Username})
		return
	}

	if err := h.auth.Register(req.Username, req.Password); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrUsernameTaken) {
			status = http.StatusConflict
		}
		c.HTML(status, "register.html", gin.H{
			"Error":    err.Error(),
			"Username": req.Username,
		})
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

// Home handles GET /home
func (h *AuthHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{"Username": currentUser(c)})
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.end(c)
	c.Redirect(http.StatusFound, "/login")
}
