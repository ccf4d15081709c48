// Package main 初始化数据库结构（扩展、表与索引）
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"bizprompt-api/internal/config"
	"bizprompt-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting database bootstrap...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	client, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize postgres: %v", err)
	}
	defer cleanup()

	if err := client.AutoMigrate(ctx); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	fmt.Printf("Database %s is ready\n", cfg.Database.Postgres.Database)
}
