package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/adityapratama/shopeasy-backend/pkg/config"
	"github.com/adityapratama/shopeasy-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [up|down|status]\n")
	}
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}

	sqlDB, err := sql.Open("postgres", cfg.DB.DSN)
	if err != nil {
		fail(fmt.Errorf("opening database: %w", err))
	}
	defer sqlDB.Close()

	ctx := context.Background()
	switch command {
	case "up":
		err = migrate.Up(ctx, sqlDB)
	case "down":
		err = migrate.Down(ctx, sqlDB)
	case "status":
		err = migrate.Status(ctx, sqlDB)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
