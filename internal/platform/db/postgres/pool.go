package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/ogurasousui/employee-directory/internal/platform/config"
)

// BuildPoolConfig は database 設定から pgxpool.Config を構築します。
// LogQueries が有効な場合、発行された SQL を logger へ debug レベルで出力します。
func BuildPoolConfig(cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	if cfg.LogQueries {
		poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   zerologTracer(logger),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	return poolCfg, nil
}

// NewPool は pgxpool.Pool を生成し疎通確認を行います。
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := BuildPoolConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return pool, nil
}

func zerologTracer(logger zerolog.Logger) tracelog.LoggerFunc {
	return func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		l := zerolog.Ctx(ctx)
		if l.GetLevel() == zerolog.Disabled {
			l = &logger
		}
		// log_queries 有効時は log.level に関係なく debug まで出力する
		ql := l.Level(zerolog.DebugLevel)
		ql.WithLevel(toZerologLevel(level)).Fields(data).Str("component", "pgx").Msg(msg)
	}
}

func toZerologLevel(level tracelog.LogLevel) zerolog.Level {
	switch level {
	case tracelog.LogLevelTrace:
		return zerolog.TraceLevel
	case tracelog.LogLevelDebug:
		return zerolog.DebugLevel
	case tracelog.LogLevelInfo:
		return zerolog.InfoLevel
	case tracelog.LogLevelWarn:
		return zerolog.WarnLevel
	case tracelog.LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}
