package main

import (
	"context"
	"fmt"
	"os"

	"coursereviews/internal/config"
	"coursereviews/internal/database"
	"coursereviews/internal/fixture"
	"coursereviews/internal/pkg/jwt"
	"coursereviews/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New("coursereviews-seed", cfg.LogLevel)
	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Error("db connection failed", "error", err.Error())
		os.Exit(1)
	}

	log.Info("running migrations")
	if err := database.Migrate(db); err != nil {
		log.Error("migration failed", "error", err.Error())
		os.Exit(1)
	}

	log.Info("cleaning old data")
	for _, table := range []string{"reviews", "classes", "subjects", "students"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Error("cleanup failed", "table", table, "error", err.Error())
			os.Exit(1)
		}
	}

	if err := fixture.Load(ctx, db); err != nil {
		log.Error("loading fixture failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("fixture loaded",
		"classes", len(fixture.Classes()),
		"subjects", len(fixture.Subjects()),
		"students", len(fixture.Students()),
	)

	token, err := jwt.New(jwt.Options{
		Secret:        cfg.AuthSecret,
		Issuer:        cfg.AuthIssuer,
		Audience:      cfg.AuthAudience,
		AllowedDomain: cfg.AuthAllowedDomain,
		TTL:           cfg.AuthTokenTTL,
	}).GenerateToken(fixture.AdminEmail)
	if err != nil {
		log.Error("token generation failed", "error", err.Error())
		os.Exit(1)
	}
	fmt.Println(token)
}
