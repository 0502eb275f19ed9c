package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-employee-directory/internal/core/config"
	"go-employee-directory/internal/core/database"
	"go-employee-directory/internal/core/logger"
	"go-employee-directory/internal/domain"
	"go-employee-directory/internal/repo"
	"go-employee-directory/pkg/utils"
)

var positions = []string{"Manager", "Developer", "Designer", "QA", "CEO"}

// 造一批演示数据，方便本地调列表/过滤/分页
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))
	}
	if err := db.AutoMigrate(&domain.Employee{}); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	count := cfg.Seed.Count
	if count <= 0 {
		count = 30
	}

	r := repo.NewEmployeeRepo(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	inserted := 0
	for i := 1; i <= count; i++ {
		e := domain.Employee{
			ID:        utils.NewID(),
			Firstname: fmt.Sprintf("User%02d", i),
			Lastname:  fmt.Sprintf("Demo%02d", i),
			Position:  positions[i%len(positions)],
			Phone:     fmt.Sprintf("555-01%02d", i),
			Email:     fmt.Sprintf("user%02d@example.com", i),
		}
		if err := r.Create(ctx, &e); err != nil {
			// 重复邮箱说明已经种过，跳过即可
			if domain.IsConflict(err) {
				continue
			}
			log.Fatal("seed insert failed", zap.Error(err), zap.String("email", e.Email))
		}
		inserted++
	}
	log.Info("seed done", zap.Int("requested", count), zap.Int("inserted", inserted))
}
