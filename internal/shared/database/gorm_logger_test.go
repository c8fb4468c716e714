package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rezzy/server/internal/utils/requestctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedLogger(threshold time.Duration) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), threshold), logs
}

func query(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := requestctx.WithRequestID(context.Background(), "req-1")

	t.Run("failed query", func(t *testing.T) {
		l, logs := newObservedLogger(time.Second)
		l.Trace(ctx, time.Now(), query("SELECT 1"), errors.New("connection reset"))

		entries := logs.FilterMessage("query failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
		assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		l, logs := newObservedLogger(time.Second)
		l.Trace(ctx, time.Now(), query("SELECT 1"), gorm.ErrRecordNotFound)
		assert.Zero(t, logs.Len())
	})

	t.Run("slow query", func(t *testing.T) {
		l, logs := newObservedLogger(10 * time.Millisecond)
		l.Trace(ctx, time.Now().Add(-time.Second), query("UPDATE usage_periods"), nil)

		entries := logs.FilterMessage("slow query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("fast query at default level", func(t *testing.T) {
		l, logs := newObservedLogger(time.Second)
		l.Trace(ctx, time.Now(), query("SELECT 1"), nil)
		assert.Zero(t, logs.Len())
	})

	t.Run("info level logs every query", func(t *testing.T) {
		l, logs := newObservedLogger(time.Second)
		l.LogMode(gormlogger.Info).Trace(ctx, time.Now(), query("SELECT 1"), nil)
		assert.Equal(t, 1, logs.FilterMessage("query").Len())
	})

	t.Run("silent", func(t *testing.T) {
		l, logs := newObservedLogger(time.Second)
		l.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), query("SELECT 1"), errors.New("boom"))
		assert.Zero(t, logs.Len())
	})
}
