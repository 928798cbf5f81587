package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"classbook/pkg/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormLogger routes gorm's output through the application logger. Queries
// slower than slow are reported with LogSlowQuery.
type gormLogger struct {
	log   *logger.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

func newGormLogger(l *logger.Logger, level gormlogger.LogLevel, slow time.Duration) gormlogger.Interface {
	return &gormLogger{log: l, level: level, slow: slow}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *g
	cp.level = level
	return &cp
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.log.ErrorWithContext(ctx, "database query failed", err, map[string]interface{}{
			"query":    sql,
			"rows":     rows,
			"duration": elapsed,
		})
	case g.slow > 0 && elapsed > g.slow && g.level >= gormlogger.Warn:
		sql, _ := fc()
		g.log.LogSlowQuery(ctx, sql, elapsed)
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.log.DebugContext(ctx, "database query", "query", sql, "rows", rows, "duration", elapsed)
	}
}

// gormLogLevel is quiet in tests, warns on slow or failing queries in
// production and traces every query in development
func gormLogLevel(production, development bool) gormlogger.LogLevel {
	switch {
	case development:
		return gormlogger.Info
	case production:
		return gormlogger.Warn
	default:
		return gormlogger.Silent
	}
}
