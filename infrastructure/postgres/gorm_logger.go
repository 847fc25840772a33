package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"photo-triage/pkg/logger"
)

// slowQuery is the threshold above which a statement is logged as a warning.
const slowQuery = 300 * time.Millisecond

// dbLogger sends GORM output to the db log category instead of stdout.
type dbLogger struct {
	level gormlogger.LogLevel
}

func newDBLogger(logSQL bool) gormlogger.Interface {
	if logSQL {
		return &dbLogger{level: gormlogger.Info}
	}
	return &dbLogger{level: gormlogger.Warn}
}

func (l *dbLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &dbLogger{level: level}
}

func (l *dbLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		logger.DB("gorm", fmt.Sprintf(msg, args...), nil)
	}
}

func (l *dbLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		logger.Warn(logger.CategoryDB, "gorm", fmt.Sprintf(msg, args...), nil)
	}
}

func (l *dbLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		logger.DBError("gorm", fmt.Sprintf(msg, args...), nil, nil)
	}
}

func (l *dbLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		logger.DBError("query", "Query failed", err, map[string]interface{}{
			"sql": sql, "rows": rows, "elapsed_ms": elapsed.Milliseconds(),
		})
	case elapsed > slowQuery && l.level >= gormlogger.Warn:
		sql, rows := fc()
		logger.Warn(logger.CategoryDB, "slow_query", "Slow query", map[string]interface{}{
			"sql": sql, "rows": rows, "elapsed_ms": elapsed.Milliseconds(),
		})
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		logger.Debug(logger.CategoryDB, "query", sql, map[string]interface{}{
			"rows": rows, "elapsed_ms": elapsed.Milliseconds(),
		})
	}
}
