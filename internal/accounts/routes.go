package accounts

import "github.com/gin-gonic/gin"

// RegisterRoutes registers account routes.
func RegisterRoutes(g *gin.RouterGroup, handler *Handler) {
	users := g.Group("/users")
	{
		users.POST("/register", handler.Register)
		users.GET("/me", handler.Me)
		users.PUT("/me", handler.UpdateProfile)
	}
	g.POST("/emissions", handler.RecordEmission)
	g.POST("/tokens/reward", handler.RewardTokens)
}
