package archive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/EPecherkin/innergy-chat/logger"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const SLOW_QUERY = time.Second

// dbLogger sends gorm's warnings, errors and slow queries to the application log.
type dbLogger struct {
	lgr   *slog.Logger
	level gormlogger.LogLevel
}

func newDBLogger(lgr *slog.Logger) gormlogger.Interface {
	return &dbLogger{lgr: lgr.With(logger.CALLER, "archive"), level: gormlogger.Warn}
}

func (dblgr *dbLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	copied := *dblgr
	copied.level = level
	return &copied
}

func (dblgr *dbLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if dblgr.level >= gormlogger.Info {
		dblgr.lgr.InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (dblgr *dbLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if dblgr.level >= gormlogger.Warn {
		dblgr.lgr.WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (dblgr *dbLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if dblgr.level >= gormlogger.Error {
		dblgr.lgr.ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (dblgr *dbLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if dblgr.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && dblgr.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		dblgr.lgr.With(logger.ERROR, err, "sql", sql, "rows", rows, logger.LATENCY, elapsed).ErrorContext(ctx, "archive query failed")
	case elapsed > SLOW_QUERY && dblgr.level >= gormlogger.Warn:
		sql, rows := fc()
		dblgr.lgr.With("sql", sql, "rows", rows, logger.LATENCY, elapsed).WarnContext(ctx, "slow archive query")
	case dblgr.level >= gormlogger.Info:
		sql, rows := fc()
		dblgr.lgr.With("sql", sql, "rows", rows, logger.LATENCY, elapsed).DebugContext(ctx, "archive query")
	}
}
