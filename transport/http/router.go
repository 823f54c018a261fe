package http

import (
	"github.com/gin-gonic/gin"

	"github.com/kamalbuilds/zkPassport/config"
	"github.com/kamalbuilds/zkPassport/service"
)

// SetupRouter sets up the Gin router.
func SetupRouter(login *service.LoginFlow, sessions *service.SessionManager, registry *service.Registry, bridge *service.Bridge, providers map[string]config.OAuthProvider) *gin.Engine {
	router := gin.Default()

	handlers := NewHandlers(login, sessions, registry, bridge, providers)

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.POST("/begin", handlers.BeginLogin)
		auth.POST("/callback", handlers.CompleteLogin)
		auth.POST("/logout", handlers.Logout)
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(SessionMiddleware(sessions))
	{
		api.GET("/session", handlers.Session)
		api.POST("/session/proof", handlers.GenerateProof)

		api.POST("/credentials", handlers.IssueCredential)
		api.GET("/credentials", handlers.ListCredentials)
		api.GET("/credentials/:id", handlers.GetCredential)
		api.GET("/credentials/:id/verify", handlers.VerifyCredential)
		api.DELETE("/credentials/:id", handlers.RevokeCredential)

		api.GET("/issuers", handlers.ListIssuers)
		api.GET("/chains", handlers.ListChains)
		api.POST("/bridge/verify", handlers.VerifyBridge)
	}

	return router
}
