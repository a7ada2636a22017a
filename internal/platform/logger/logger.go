// Package logger は zerolog ベースのロガーを構築します。
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ogurasousui/employee-directory/internal/platform/config"
)

// New は設定からロガーを生成します。返却される io.Closer はログファイルを閉じるために使用します。
func New(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("logger: parse level %q: %w", cfg.Level, err)
	}

	var console io.Writer = os.Stdout
	if cfg.Format == "console" {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{console}
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("logger: open %s: %w", cfg.File, err)
		}
		writers = append(writers, file)
		closer = file
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("service", "employee-directory").
		Logger()

	return l, closer, nil
}

// FromContext はコンテキストに格納されたロガーを返します。未設定の場合は fallback を返します。
func FromContext(ctx context.Context, fallback zerolog.Logger) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &fallback
	}
	return l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
