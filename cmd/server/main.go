package main

import (
	"log"
	"net/http"
	"os"

	"among-legends/internal/config"
	"among-legends/internal/db"
	"among-legends/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	// The server runs without Postgres; sessions just will not survive a
	// restart.
	conn, err := db.Open()
	if err != nil {
		log.Printf("running without a database: %v", err)
		conn = nil
	} else {
		if err := db.ConfigurePool(conn,
			cfg.DBMaxOpenConns,
			cfg.DBMaxIdleConns,
			cfg.ConnMaxLifetime(),
			cfg.ConnMaxIdleTime(),
		); err != nil {
			log.Printf("failed to configure db pool: %v", err)
		}
	}

	srv := server.New(conn, cfg)
	log.Printf("among-legends server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
