package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/cardwatch/internal/api/handlers"
	"github.com/codyseavey/cardwatch/internal/config"
	"github.com/codyseavey/cardwatch/internal/services"
)

func SetupRouter(cfg *config.Config, tracker *services.Tracker, worker *services.IngestWorker) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	changeHandler := handlers.NewChangeHandler(tracker, cfg.Watch, cfg.Ingest.CardType)
	setHandler := handlers.NewSetHandler(tracker, cfg.Sets.MaxWatchMonths, cfg.Ingest.CardType)
	ingestHandler := handlers.NewIngestHandler(worker)

	api := router.Group("/api")
	{
		api.GET("/watch", changeHandler.GetWatch)

		top := api.Group("/top")
		{
			top.GET("/ultra", changeHandler.GetTopUltra)
			top.GET("/secret", changeHandler.GetTopSecret)
		}

		sets := api.Group("/sets")
		{
			sets.GET("", setHandler.GetSets)
			sets.GET("/:slug", setHandler.GetSet)
		}
		api.GET("/index", setHandler.GetIndex)

		api.POST("/ingest", ingestHandler.TriggerIngest)
		api.GET("/status", ingestHandler.GetStatus)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
