package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// PostgreSQL SQLSTATE codes for constraint violations the repositories
// translate into conflicts
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

// GormLogger writes GORM statements to zap.
//
// Failures fall into two groups. Missing rows and constraint violations are
// ordinary outcomes here (a duplicate registration, a second enrollment in
// the same course, a delete blocked by order items) and are only logged at
// debug. Every other failure is an error.
type GormLogger struct {
	logger        *zap.Logger
	logLevel      gormlogger.LogLevel
	slowThreshold time.Duration
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a statement is logged as slow.
// Zero disables slow statement warnings.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) {
		l.slowThreshold = threshold
	}
}

// NewGormLogger creates a GORM logger on a named child of zapLogger
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		logger:        zapLogger.Named("gorm"),
		logLevel:      level,
		slowThreshold: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.logLevel = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Info {
		l.scoped(ctx).Info(fmt.Sprintf(msg, data...))
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Warn {
		l.scoped(ctx).Warn(fmt.Sprintf(msg, data...))
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Error {
		l.scoped(ctx).Error(fmt.Sprintf(msg, data...))
	}
}

// Trace implements gormlogger.Interface
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold

	switch {
	case err != nil && !IsExpectedDBError(err):
		if l.logLevel >= gormlogger.Error {
			l.scoped(ctx).Error("SQL failed", append(l.statementFields(elapsed, fc), zap.Error(err))...)
		}
	case slow && l.logLevel >= gormlogger.Warn:
		fields := l.statementFields(elapsed, fc)
		if err != nil {
			fields = append(fields, zap.NamedError("outcome", err))
		}
		l.scoped(ctx).Warn(fmt.Sprintf("Slow SQL over %v", l.slowThreshold), fields...)
	case l.logLevel >= gormlogger.Info:
		fields := l.statementFields(elapsed, fc)
		if err != nil {
			fields = append(fields, zap.NamedError("outcome", err))
		}
		l.scoped(ctx).Debug("SQL", fields...)
	}
}

// IsExpectedDBError reports whether err is a missing row or a constraint
// violation, the failures repositories map onto not-found and conflict errors
func IsExpectedDBError(err error) bool {
	switch {
	case errors.Is(err, gormlogger.ErrRecordNotFound),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated):
		return true
	}
	var coded interface{ SQLState() string }
	if errors.As(err, &coded) {
		state := coded.SQLState()
		return state == sqlStateUniqueViolation || state == sqlStateForeignKeyViolation
	}
	return false
}

func (l *GormLogger) scoped(ctx context.Context) *zap.Logger {
	log := l.logger
	if requestID := GetRequestID(ctx); requestID != "" {
		log = log.With(zap.String("request_id", requestID))
	}
	if userID := GetUserID(ctx); userID != "" {
		log = log.With(zap.String("user_id", userID))
	}
	return log
}

func (l *GormLogger) statementFields(elapsed time.Duration, fc func() (string, int64)) []zap.Field {
	sql, rows := fc()
	return []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
}

// MapGormLogLevel maps the application log level to a GORM log level
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
