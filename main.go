package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/pr4th4meshh/respondly/app"
	"github.com/pr4th4meshh/respondly/config"
	"github.com/pr4th4meshh/respondly/database"
	"github.com/pr4th4meshh/respondly/httpx"
	"github.com/pr4th4meshh/respondly/log"
	"github.com/pr4th4meshh/respondly/routes"
	"github.com/pr4th4meshh/respondly/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	app := app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Forms:        store.NewSQLite(db),
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
