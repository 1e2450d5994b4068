package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"warehouse-coverage-service/internal/adapters/repositories"
	"warehouse-coverage-service/internal/api"
	"warehouse-coverage-service/internal/config"
	"warehouse-coverage-service/internal/platform/db"
	"warehouse-coverage-service/internal/ports"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It picks the storage backend from the environment and starts the HTTP server:
// Postgres when DATABASE_URL is set, otherwise the embedded SQLite store.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")

	var repo ports.NetworkRepository

	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		if err := repositories.InitSchema(pg); err != nil {
			log.Fatal(err)
		}

		log.Println("Using postgres storage")
		repo = repositories.NewPostgresNetworkRepository(pg)
	} else {
		dbPath := config.Get("DB_PATH", "data/warehouses.db")
		sqlite, err := openDB(dbPath)
		if err != nil {
			log.Fatal(err)
		}
		defer sqlite.Close()

		sqliteRepo := repositories.NewSqliteNetworkRepository(sqlite)

		// Initialize schema and seed demo data on startup for local runs.
		if err := initAndSeed(sqliteRepo, sqlite); err != nil {
			log.Fatal(err)
		}

		log.Printf("Using sqlite storage path=%s", dbPath)
		repo = sqliteRepo
	}

	router := api.NewRouter(repo)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	// The db file may live under a directory that does not exist yet on a
	// fresh checkout.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("openDB: create data dir %q: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(repo ports.NetworkRepository, db *sql.DB) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	seedPath := config.Get("SEED_PATH", "data/seeds/network.json")
	if err := repositories.SeedFromJSON(context.Background(), repo, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
