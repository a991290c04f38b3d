package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"github.com/stemsi/kelas-backend/internal/config"
	"github.com/stemsi/kelas-backend/internal/database"
	"github.com/stemsi/kelas-backend/internal/logger"
	"github.com/stemsi/kelas-backend/internal/model"
	"github.com/stemsi/kelas-backend/internal/repository"
	"github.com/stemsi/kelas-backend/internal/service"
	"github.com/stemsi/kelas-backend/internal/validator"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	validator.Setup()

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin User ===")

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')

	// KTP
	fmt.Print("Enter KTP: ")
	ktpStr, _ := reader.ReadString('\n')

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	fmt.Println() // Newline after password input

	// ─── Logic ─────────────────────────────────────────────────────────

	admin, fields, err := buildAdmin(name, email, ktpStr, string(bytePassword), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}
	if fields != nil {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("Error: %s\n", fields[k])
		}
		return
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			fmt.Println("Error: Email is already registered")
		case errors.Is(err, repository.ErrDuplicateKTP):
			fmt.Println("Error: KTP is already registered")
		default:
			log.Fatal().Err(err).Msg("Failed to create admin")
		}
		return
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %d\n", admin.Name, admin.Email, admin.ID)
}

// buildAdmin checks the prompted values with the same rules as self-service
// registration and returns the admin to insert. fields is non-nil when the
// input is rejected.
func buildAdmin(name, email, ktp, password string, bcryptCost int) (*model.User, map[string]string, error) {
	req := model.RegisterRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
		KTP:      strings.TrimSpace(ktp),
	}
	if fields := validator.Struct(req); fields != nil {
		return nil, fields, nil
	}
	ktpNum, _ := validator.ParseKTP(req.KTP)

	hash, err := service.HashPassword(req.Password, bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	return &model.User{
		Name:         req.Name,
		Email:        req.Email,
		KTP:          ktpNum,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}, nil, nil
}
