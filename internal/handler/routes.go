package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles the page and API handlers with their session guard
type Handlers struct {
	Sessions *SessionMiddleware
	Auth     *AuthHandler
	Predict  *PredictHandler
	API      *APIHandler
}

// Register mounts the web pages and the JSON API on router
func (h *Handlers) Register(router gin.IRouter) {
	// Public pages
	router.GET("/", h.Auth.Index)
	router.GET("/login", h.Auth.LoginPage)
	router.POST("/login", h.Auth.Login)
	router.GET("/register", h.Auth.RegisterPage)
	router.POST("/register", h.Auth.Register)
	router.GET("/logout", h.Auth.Logout)

	// Signed-in pages
	pages := router.Group("/", h.Sessions.RequirePage())
	{
		pages.GET("/home", h.Auth.Home)
		pages.GET("/predict", h.Predict.Form)
		pages.POST("/predict", h.Predict.Predict)
	}

	// API routes
	apiV1 := router.Group("/api/v1", h.Sessions.RequireAPI())
	{
		apiV1.POST("/predict", h.API.Predict)
		apiV1.GET("/options", h.API.Options)
		apiV1.GET("/catalog/brands", h.API.Brands)
		apiV1.GET("/catalog/models", h.API.Models)
	}
}
