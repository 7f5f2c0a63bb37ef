package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/osse101/CommunityEconomy_Go/internal/database"
)

// setup creates the economy database when it is missing and applies the
// migrations. With -reset the database is dropped and recreated first.
func main() {
	reset := flag.Bool("reset", false, "drop and recreate the database before migrating")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		log.Fatal("DB_NAME is not set")
	}
	serverConn := connString("postgres")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := pgx.Connect(ctx, serverConn)
	if err != nil {
		log.Fatalf("Unable to connect to postgres database: %v", err)
	}
	ident := pgx.Identifier{dbName}.Sanitize()

	if *reset {
		log.Printf("Terminating connections to %s...", dbName)
		if _, err := conn.Exec(ctx, `
			SELECT pg_terminate_backend(pid)
			FROM pg_stat_activity
			WHERE datname = $1 AND pid <> pg_backend_pid()`, dbName); err != nil {
			log.Printf("Warning: failed to terminate connections: %v", err)
		}
		if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+ident); err != nil {
			log.Fatalf("Failed to drop database: %v", err)
		}
		log.Printf("Database %s dropped", dbName)
	}

	var exists bool
	if err := conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists); err != nil {
		log.Fatalf("Failed to check if database exists: %v", err)
	}
	if exists {
		log.Printf("Database %s already exists", dbName)
	} else {
		if _, err := conn.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
			log.Fatalf("Failed to create database: %v", err)
		}
		log.Printf("Database %s created", dbName)
	}
	conn.Close(ctx)

	log.Println("Running migrations...")
	if err := database.Migrate(ctx, connString(dbName)); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("✅ Database ready")
}

func connString(dbName string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		dbName,
	)
}
