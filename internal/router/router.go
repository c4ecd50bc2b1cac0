// Package router wires the HTTP route table. Paths mirror the original API
// exactly so the existing mobile client works unchanged: public register and
// login, then a bearer-token group covering users, tasks, chats and notes.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/employee-task-tracker/internal/config"
	"github.com/iliyamo/employee-task-tracker/internal/handler"
	"github.com/iliyamo/employee-task-tracker/internal/metrics"
	"github.com/iliyamo/employee-task-tracker/internal/middleware"
	"github.com/iliyamo/employee-task-tracker/internal/model"
	"github.com/iliyamo/employee-task-tracker/internal/repository"
)

// Handlers groups the handler set the router mounts.
type Handlers struct {
	Auth *handler.AuthHandler
	Task *handler.TaskHandler
	Chat *handler.ChatHandler
	Note *handler.NoteHandler
}

// Register mounts every route on the provided Echo instance. rdb may be nil,
// in which case rate limiting and the roster cache are disabled.
func Register(e *echo.Echo, h Handlers, tokens *repository.TokenRepo, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.Use(metrics.Middleware())

	api := e.Group("/api")
	api.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Public routes
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)

	// Protected routes
	auth := api.Group("")
	auth.Use(middleware.TokenAuth(tokens))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleEmployee))

	auth.GET("/user", h.Auth.Me)
	auth.GET("/users", h.Auth.ListUsers, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	auth.POST("/logout", h.Auth.Logout)

	// Task routes
	auth.GET("/tasks", h.Task.List)
	auth.GET("/tasks/:id", h.Task.Get)
	auth.POST("/tasks", h.Task.Create)
	auth.POST("/tasks/assign", h.Task.Assign)
	auth.PUT("/tasks/:id", h.Task.Update)
	auth.DELETE("/tasks/:id", h.Task.Delete)

	// Chat routes
	auth.GET("/chats", h.Chat.List)
	auth.POST("/chats", h.Chat.Create)
	auth.DELETE("/chats/:id", h.Chat.Delete)

	// Note routes
	auth.GET("/notes", h.Note.List)
	auth.POST("/notes", h.Note.Create)
	auth.GET("/notes/:id", h.Note.Get)
	auth.PUT("/notes/:id", h.Note.Update)
	auth.DELETE("/notes/:id", h.Note.Delete)
}
