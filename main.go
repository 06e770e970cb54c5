package main

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"

	"poster/config"
	"poster/db"
	"poster/handlers"
	"poster/models"
	"poster/storage"
	"poster/utils"
)

func main() {
	db.Init()
	models.Init()
	storage.Init()

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`^/photo/.*/fetch$`})))
	}
	router.Use((&utils.CacheRouter{}).Handler()) // No cache by default

	router.GET("/health", handlers.Health)
	// Photo handlers
	router.POST("/photo/upload", handlers.PhotoUpload)
	router.POST("/photo/:token/process", handlers.PhotoProcess)
	router.GET("/photo/:token/fetch", handlers.PhotoFetch)
	// Stateless processing for the poster form preview
	router.POST("/process", handlers.ProcessDirect)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
