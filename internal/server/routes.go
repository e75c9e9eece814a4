package server

import (
	"github.com/OFFIS-RIT/umlreview/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg Config) {
	// Health check route
	e.GET("/health", routes.HealthHandler)

	// Frontend
	e.GET("/", routes.IndexHandler)
	if cfg.StaticDir != "" {
		e.Static("/static", cfg.StaticDir)
	}
	if cfg.DrawioDir != "" {
		e.Static("/drawio", cfg.DrawioDir)
	}

	// Review of uploaded diagrams
	e.POST("/upload_xml", routes.UploadXMLHandler)

	apiRoutes := e.Group("/api")
	apiRoutes.POST("/extract", routes.ExtractHandler)
	apiRoutes.POST("/similar", routes.SimilarHandler)
	apiRoutes.POST("/review", routes.ReviewHandler)
}
