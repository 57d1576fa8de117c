package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xtding233/wayward-coins/internal/cart"
)

func SetupRoutes(server *Server, handlers *Handlers, sessions cart.SessionConfig, logger *zap.Logger) {
	server.Use(AccessLog(logger))

	if server.Config.CORS.Enabled {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = server.Config.CORS.AllowedOrigins
		if len(server.Config.CORS.AllowedMethods) > 0 {
			corsConfig.AllowMethods = server.Config.CORS.AllowedMethods
		}
		corsConfig.AllowHeaders = append([]string{sessionHeader}, server.Config.CORS.AllowedHeaders...)
		corsConfig.ExposeHeaders = []string{sessionHeader}
		corsConfig.AllowCredentials = server.Config.CORS.AllowCredentials
		corsConfig.MaxAge = server.Config.CORS.MaxAge

		corsHandler := cors.New(corsConfig)
		server.Use(corsHandler)
		server.OPTIONS("*any", corsHandler)
	}

	server.GET("/health", handlers.Health)

	session := WithSession(sessions.CookieName, sessions.TTL, handlers.shop.NewSession)
	server.GET("/", session, handlers.Page)

	api := server.Group("/api", WithTimeout(server.Config.RequestTimeout))
	{
		api.GET("/catalog", handlers.Catalog)
		api.GET("/nav", handlers.Nav)
		api.GET("/plan", handlers.Plan)
		api.GET("/custom/quote", handlers.Quote)
	}

	sessionAPI := api.Group("", session)
	{
		sessionAPI.GET("/cart", handlers.Cart)
		sessionAPI.DELETE("/cart", handlers.ClearCart)
		sessionAPI.POST("/cart/items/:id", handlers.AddItem)
		sessionAPI.DELETE("/cart/items/:id", handlers.RemoveItem)
		sessionAPI.POST("/custom", handlers.AddCustom)
		sessionAPI.POST("/checkout", handlers.Checkout)
	}
}

// NewEngine is a convenience for tests and tools: a server with every route mounted.
func NewEngine(cfg Config, handlers *Handlers, sessions cart.SessionConfig, logger *zap.Logger) (*gin.Engine, error) {
	srv, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}
	SetupRoutes(srv, handlers, sessions, logger)
	return srv.Engine, nil
}
