package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stemsi/kelas-backend/internal/config"
	"github.com/stemsi/kelas-backend/internal/database"
	"github.com/stemsi/kelas-backend/internal/logger"
	"github.com/stemsi/kelas-backend/internal/model"
	"github.com/stemsi/kelas-backend/internal/repository"
	"github.com/stemsi/kelas-backend/internal/service"
	"github.com/stemsi/kelas-backend/internal/validator"
)

// seedPassword is shared by every demo student.
const seedPassword = "kelasjaya"

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	userRepo := repository.NewUserRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	broker := repository.NewActivityBroker(rdb)

	userService := service.NewUserService(userRepo, cfg.BcryptCost)
	assignmentService := service.NewAssignmentService(assignmentRepo, classRepo, broker, log)
	classService := service.NewClassService(classRepo, assignmentService, repository.NewClassCache(rdb, cfg.ClassCacheTTL), broker, log)

	// The seeder acts with admin rights without a stored admin account.
	seeder := &model.User{Name: "seed", Role: model.RoleAdmin}

	fmt.Println("=== Seeding Classes ===")

	classNames := []string{"Pemrograman Web", "Basis Data", "Jaringan Komputer"}
	classes := make([]*model.Class, 0, len(classNames))
	for _, name := range classNames {
		class, err := classService.Create(ctx, seeder, name)
		if err != nil {
			log.Fatal().Err(err).Str("name", name).Msg("Failed to create class")
		}
		classes = append(classes, class)
		fmt.Printf("Created class %q with ID: %d\n", class.Name, class.ID)
	}

	fmt.Println("=== Seeding Students ===")

	names := []string{
		"Budi Santoso", "Siti Aminah", "Andi Pratama", "Rina Wati", "Joko Susilo",
		"Ayu Lestari", "Dodi Kusuma", "Eka Putri", "Fahri Hamzah", "Gita Savitri",
	}

	successCount := 0
	for i, name := range names {
		student, err := userService.Register(ctx, model.RegisterRequest{
			Name:     name,
			Email:    fmt.Sprintf("student%d@kelas.test", i+1),
			Password: seedPassword,
			KTP:      fmt.Sprintf("51710100000%05d", i+1),
		})
		if err != nil {
			if errors.Is(err, service.ErrConflict) {
				fmt.Printf("Skipping %s: already registered\n", name)
				continue
			}
			fmt.Printf("Error creating student %s: %v\n", name, err)
			continue
		}
		successCount++

		// Every student submits to the first class; every other one to the second as well.
		for j, class := range classes[:1+i%2] {
			url := fmt.Sprintf("https://github.com/student%d/tugas-%d", i+1, j+1)
			if _, err := assignmentService.Submit(ctx, student, class.ID, url); err != nil {
				fmt.Printf("Error submitting for %s: %v\n", name, err)
			}
		}
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", successCount, len(names))
}
