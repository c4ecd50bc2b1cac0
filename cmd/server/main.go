package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/employee-task-tracker/internal/config"
	"github.com/iliyamo/employee-task-tracker/internal/database"
	"github.com/iliyamo/employee-task-tracker/internal/handler"
	"github.com/iliyamo/employee-task-tracker/internal/logging"
	"github.com/iliyamo/employee-task-tracker/internal/queue"
	"github.com/iliyamo/employee-task-tracker/internal/repository"
	"github.com/iliyamo/employee-task-tracker/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Init(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// nil when Redis is unreachable; rate limiting and caching degrade to no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logging.Logger.Warn("redis unavailable; rate limiting and roster cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tasks := repository.NewTaskRepo(db)
	chats := repository.NewChatRepo(db)
	notes := repository.NewNoteRepo(db)

	h := router.Handlers{
		Auth: handler.NewAuthHandler(cfg, users, tokens),
		Task: handler.NewTaskHandler(tasks, users),
		Chat: handler.NewChatHandler(chats),
		Note: handler.NewNoteHandler(notes),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, h, tokens, rdb)

	// Notification feed consumer; reconnects forever on its own.
	go func() {
		if err := queue.StartAssignmentConsumer(); err != nil {
			logging.Logger.WithError(err).Error("assignment consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
