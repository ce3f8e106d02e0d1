package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"villafinder/internal/infra/config"
	"villafinder/internal/infra/obs"
)

type PageHTTP interface {
	Villa(c *gin.Context)
	Scoop(c *gin.Context)
	Home(c *gin.Context)
}

type ViewHTTP interface {
	Record(c *gin.Context)
}

type SEOHTTP interface {
	Sitemap(c *gin.Context)
	Robots(c *gin.Context)
}

type Handlers struct {
	Pages   PageHTTP
	Views   ViewHTTP
	SEO     SEOHTTP
	Metrics *obs.Metrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the gin engine without binding a listener.
func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	if h.Metrics != nil {
		router.Use(h.Metrics.HTTP())
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	registerSwaggerRoutes(router)

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)
	if h.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(h.MetricsHandler))
	}
	if h.SEO != nil {
		router.GET("/sitemap.xml", h.SEO.Sitemap)
		router.GET("/robots.txt", h.SEO.Robots)
	}

	api := router.Group("/api/v1")
	if h.Pages != nil {
		api.GET("/home", h.Pages.Home)
		api.GET("/villas/:slug", h.Pages.Villa)
		api.GET("/scoops/:slug", h.Pages.Scoop)
	}
	if h.Views != nil {
		api.POST("/views", h.Views.Record)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
