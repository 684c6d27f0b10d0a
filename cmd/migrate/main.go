package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/config"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		fmt.Println("Migration failed:", err)
		os.Exit(1)
	}
	fmt.Println("Schema applied to", cfg.Database.Name)
}
