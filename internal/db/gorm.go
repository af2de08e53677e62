package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormDB backs the planner store. Its underlying *sql.DB is also used for
// schema migrations.
type GormDB struct {
	DB *gorm.DB
}

func ConnectGorm(ctx context.Context, databaseURL string, debug bool) (*GormDB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	gormDB, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm db: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get gorm sql db: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctxPing); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping gorm db: %w", err)
	}

	return &GormDB{DB: gormDB}, nil
}

func (g *GormDB) SQLDB() (*sql.DB, error) {
	return g.DB.DB()
}

func (g *GormDB) Ping(ctx context.Context) error {
	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (g *GormDB) Close() {
	if g == nil || g.DB == nil {
		return
	}

	sqlDB, err := g.DB.DB()
	if err != nil {
		return
	}

	_ = sqlDB.Close()
}
