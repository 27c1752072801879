package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/rl1809/packdemo/internal/adapter/storage"
	"github.com/rl1809/packdemo/internal/config"
	"github.com/rl1809/packdemo/internal/port"
)

// loadConfig resolves config and builds the stderr logger. The --log-level
// flag wins over file and environment.
func loadConfig(flags *globalFlags, stderr io.Writer) (*config.Config, *slog.Logger, error) {
	bootstrap := newLogger(flags.logLevel, stderr)
	cfg, err := config.NewLoader(bootstrap).Load(flags.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	logger := newLogger(cfg.LogLevel, stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

type stores struct {
	ledger  port.ReleaseLedger
	history port.ReleaseHistory
	closers []func() error
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// mysqlDSN forces parseTime so DATETIME columns scan into time.Time.
func mysqlDSN(raw string) (string, error) {
	dsnCfg, err := mysql.ParseDSN(raw)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	dsnCfg.ParseTime = true
	return dsnCfg.FormatDSN(), nil
}

// openStores connects the configured backends. Anything unset falls back to
// an in-process store.
func openStores(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*stores, error) {
	memory := storage.NewMemoryAdapter()
	s := &stores{ledger: memory, history: memory}

	if cfg.MySQLDSN != "" {
		dsn, err := mysqlDSN(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping mysql: %w", err)
		}
		logger.Info("connected to mysql")
		s.history = storage.NewMySQLAdapter(db)
		s.closers = append(s.closers, db.Close)
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 10,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			s.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("connected to redis", "addr", cfg.RedisAddr)
		s.ledger = storage.NewRedisAdapter(rdb)
		s.closers = append(s.closers, rdb.Close)
	}

	return s, nil
}
