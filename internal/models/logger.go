package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gorm_logger "gorm.io/gorm/logger"
)

// gormLogger writes gorm's log output to zerolog.
//
// Statements are logged at debug level, failed statements at error level.
// Missing resources are not failures.
type gormLogger struct {
	log zerolog.Logger
}

func (l *gormLogger) LogMode(gorm_logger.LogLevel) gorm_logger.Interface {
	return l
}

func (l *gormLogger) Info(_ context.Context, s string, args ...any) {
	l.log.Info().Msgf(s, args...)
}

func (l *gormLogger) Warn(_ context.Context, s string, args ...any) {
	l.log.Warn().Msgf(s, args...)
}

func (l *gormLogger) Error(_ context.Context, s string, args ...any) {
	l.log.Error().Msgf(s, args...)
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, rows := fc()
	event := l.log.Debug()

	if err != nil && !errors.Is(err, ErrResourceNotFound) && !errors.Is(err, gorm_logger.ErrRecordNotFound) {
		event = l.log.Error().Err(err)
	}

	event.
		Str("sql", sql).
		Int64("rows", rows).
		Dur("duration", time.Since(begin)).
		Msg("gorm")
}
