// Package api exposes the task store over HTTP.
//
// Each task route performs exactly one store call and answers with JSON:
//
//	GET    /tasks      200 array of tasks
//	POST   /tasks      201 created task
//	DELETE /tasks/:id  204 no body, also when the id does not exist
//	PATCH  /tasks/:id  200 updated task, or null when the id does not exist
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"task-tracker/store"
)

// Options tunes the router built by NewRouter.
type Options struct {
	// CORSOrigins lists allowed browser origins; "*" allows all and an
	// empty list disables CORS headers.
	CORSOrigins []string
}

// NewRouter returns a gin engine with recovery, request logging, CORS and
// the task routes installed.
func NewRouter(st store.Store, logger *slog.Logger, opts Options) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))
	if mw := corsMiddleware(opts.CORSOrigins); mw != nil {
		router.Use(mw)
	}

	SetupRoutes(router, st, logger)
	return router
}

// SetupRoutes registers the health and task routes on router.
func SetupRoutes(router *gin.Engine, st store.Store, logger *slog.Logger) {
	router.GET("/health", HealthCheck(st))

	tasks := router.Group("/tasks")
	{
		tasks.GET("", ListTasks(st, logger))
		tasks.POST("", CreateTask(st, logger))
		tasks.DELETE("/:id", DeleteTask(st, logger))
		tasks.PATCH("/:id", UpdateTask(st, logger))
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}

	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			break
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
