package service

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/explainium/explainium/app/core"
	"github.com/explainium/explainium/app/response"
	"github.com/explainium/explainium/cmd/service/handler"
	"github.com/explainium/explainium/cmd/service/middleware"
	"github.com/explainium/explainium/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func setupHttpRouter(s *handler.HttpSrv) {
	uploadCfg := s.Core.Cfg().Upload
	uploadLimit := middleware.UploadLimit(uploadCfg.RatePerSecond, uploadCfg.RateBurst)

	s.Engine.Use(gin.Recovery())
	s.Engine.Use(response.NewResponse())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(middleware.ApiMetrics(s.Core.Metrics()))

	s.Engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	apiV1 := s.Engine.Group("/api/v1")
	{
		documents := apiV1.Group("/documents")
		{
			documents.POST("/upload", uploadLimit, s.UploadDocument)
			documents.GET("", s.ListDocuments)
			documents.GET("/:id", s.GetDocument)
			documents.PATCH("/:id", s.UpdateDocument)
			documents.DELETE("/:id", s.DeleteDocument)
			documents.GET("/:id/content", s.GetDocumentContent)
			documents.GET("/:id/entities", s.ListDocumentEntities)
			documents.GET("/:id/categories", s.ListDocumentCategories)
			documents.GET("/:id/phrases", s.ListDocumentKeyPhrases)
			documents.GET("/:id/structures", s.ListDocumentStructures)
			documents.GET("/:id/relationships", s.ListDocumentRelationships)
		}

		images := apiV1.Group("/images")
		{
			images.POST("/upload", uploadLimit, s.UploadImage)
		}

		videos := apiV1.Group("/videos")
		{
			videos.POST("/upload", uploadLimit, s.UploadVideo)
			videos.GET("/:id/frames", s.ListVideoFrames)
			videos.GET("/:id/frame/:index", s.GetVideoFrame)
		}

		knowledge := apiV1.Group("/knowledge")
		{
			knowledge.POST("/search", s.SearchKnowledgeEntities)
			knowledge.GET("/stats", s.KnowledgeStats)
		}
	}
}
