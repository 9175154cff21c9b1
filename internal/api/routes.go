package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/templates", s.templatesHandler)
		api.POST("/card", s.cardHandler)
		api.GET("/holders", s.holdersHandler)
		api.POST("/holders/filter", s.filterHandler)
		api.GET("/holders/:id/card", s.holderCardHandler)
		api.GET("/qr", s.qrHandler)
	}
}

// NewEngine returns a gin engine with recovery, request logging and the API routes.
func NewEngine(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	RegisterRoutes(r, s)
	return r
}
