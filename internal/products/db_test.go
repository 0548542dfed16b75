package product

import (
	"context"
	"testing"
	"time"

	"github.com/Saymandev/samucha-storefront/internal/variants"
	"github.com/Saymandev/samucha-storefront/pkg/db"
	"github.com/Saymandev/samucha-storefront/pkg/migrate"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		// sqlite compares timestamps as text, so keep every row in UTC
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	// one connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	client := db.NewFromConn(conn)
	require.NoError(t, migrate.AutoMigrate(client))
	return client
}

type countingSequence struct{ n int64 }

func (s *countingSequence) Next(_ context.Context) (int64, error) {
	s.n++
	return s.n, nil
}

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := openTestDB(t)
	expander := variants.NewExpander(variants.NewSKUGenerator(&countingSequence{}, 3))
	svc, err := NewService(NewRepository(client.DB()), client, expander, nil, nil)
	require.NoError(t, err)
	return svc, client
}
