package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/storefront/internal/adapters/repository/postgres"
)

// Usage: migrations [-database URL] <name>|up
//
// "up" applies every up migration; any other argument applies the single
// file whose name ends in <name>.sql, e.g. "create_users.down".
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var databaseURL string
	flag.StringVar(&databaseURL, "database", os.Getenv("DATABASE_URL"), "Postgres connection URL")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("a migration name is required.")
	}
	migrationName := flag.Arg(0)

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if migrationName == "up" {
		if err := postgres.MigrateUp(ctx, db); err != nil {
			log.Fatal(err)
		}
		fmt.Println("All migrations executed successfully.")
		return
	}

	file, err := postgres.ApplyMigration(ctx, db, migrationName)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Migration file %s executed successfully.\n", file)
}
