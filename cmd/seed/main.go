package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/config"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/database"
	"github.com/ezleave/ezleave-backend-go/internal/repository/postgresql"
	"github.com/ezleave/ezleave-backend-go/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "password123"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
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

	seeder := seed.NewSeeder(
		postgresql.NewTxManager(db),
		postgresql.NewDepartmentRepository(db),
		postgresql.NewUserRepository(db),
		postgresql.NewLeaveBalanceRepository(db),
		cfg.Leave.DefaultAllocation,
	)

	result, err := seeder.Run(ctx, password)
	if err != nil {
		fmt.Println("Seed failed:", err)
		os.Exit(1)
	}

	fmt.Printf("Seed complete: %d departments, %d users created, %d existing skipped\n",
		result.DepartmentsCreated, result.UsersCreated, result.Skipped)
}
