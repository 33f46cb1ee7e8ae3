package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/storefront/internal/adapters/repository/postgres"
)

// revocationpurge removes revoked refresh token entries that have expired.
// Intended to run periodically when the postgres revocation list is in use.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var databaseURL string
	flag.StringVar(&databaseURL, "database", os.Getenv("DATABASE_URL"), "Postgres connection URL")
	flag.Parse()

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	revocations := postgres.NewRevocationRepository(db)

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Println("Starting revocation purge job...")

	purged, err := revocations.Purge(ctx)
	if err != nil {
		log.Fatalf("Error purging revoked tokens: %v", err)
	}

	log.Printf("Revocation purge completed successfully, %d entries removed.", purged)
}
