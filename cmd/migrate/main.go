package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

func main() {
	down := flag.Bool("down", false, "roll back all migrations instead of applying them")
	source := flag.String("source", "file://db/migrations", "migration source URL")
	flag.Parse()

	if os.Getenv("ENV") == "dev" {
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}
	}

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL is required")
	}

	m, err := migrate.New(*source, dbURL)
	if err != nil {
		log.Fatalf("open migrations: %v", err)
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("run migrations: %v", err)
	}
	log.Println("migrations complete")
}
