package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/poofware/coi-service/internal/app"
	"github.com/poofware/coi-service/internal/metrics"
	"github.com/poofware/coi-service/internal/repositories"
	"github.com/poofware/coi-service/internal/storage"
	"github.com/poofware/coi-service/internal/store"
	"github.com/poofware/coi-service/internal/utils"
)

var fixedNow = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

var errDiskFull = errors.New("disk full")

// flakyKV fails every write while failWrites is set.
type flakyKV struct {
	storage.KV
	failWrites atomic.Bool
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if f.failWrites.Load() {
		return errDiskFull
	}
	return f.KV.Set(ctx, key, value)
}

func (f *flakyKV) Remove(ctx context.Context, key string) error {
	if f.failWrites.Load() {
		return errDiskFull
	}
	return f.KV.Remove(ctx, key)
}

type fixture struct {
	kv        *flakyKV
	store     *store.RecordStore
	metrics   *metrics.Metrics
	coi       *COIService
	property  *PropertyService
	dashboard *DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := newUnloadedFixture(t)
	require.NoError(t, f.coi.Load(context.Background(), true))
	return f
}

func newUnloadedFixture(t *testing.T) *fixture {
	t.Helper()
	kv := &flakyKV{KV: storage.NewMemoryKV()}
	st := store.NewRecordStore()
	m := metrics.NewNop()
	coiRepo := repositories.NewCOIRepository(kv)
	propRepo := repositories.NewPropertyRepository(kv)
	return &fixture{
		kv:        kv,
		store:     st,
		metrics:   m,
		coi:       NewCOIService(st, coiRepo, propRepo, m, app.DefaultDataset, fixedClock),
		property:  NewPropertyService(st, propRepo, m, fixedClock),
		dashboard: NewDashboardService(st, 20*time.Millisecond, fixedClock),
	}
}

func requireAppError(t *testing.T, err error, status int, code string) *utils.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, status, appErr.StatusCode)
	require.Equal(t, code, appErr.Code)
	return appErr
}
