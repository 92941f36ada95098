package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/utils"
)

func TestWithRetryRetriesOnVersionRace(t *testing.T) {
	ctx := context.Background()
	stored := &models.COIRecord{ID: "1", Versioned: models.Versioned{RowVersion: 1}}

	attempts := 0
	get := func(context.Context, string) (*models.COIRecord, error) {
		return stored.Clone(), nil
	}
	update := func(_ context.Context, rec *models.COIRecord, expected int64) (int64, error) {
		attempts++
		if attempts == 1 {
			// someone else wrote in between
			stored.RowVersion++
			return 0, nil
		}
		if stored.RowVersion != expected {
			return 0, nil
		}
		rec.RowVersion = expected + 1
		stored = rec.Clone()
		return 1, nil
	}

	err := WithRetry(ctx, 3, "1", get, update, func(c *models.COIRecord) error {
		c.Notes = "updated"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "updated", stored.Notes)
	assert.EqualValues(t, 3, stored.RowVersion)
}

func TestWithRetryGivesUp(t *testing.T) {
	get := func(context.Context, string) (*models.COIRecord, error) {
		return &models.COIRecord{ID: "1"}, nil
	}
	never := func(context.Context, *models.COIRecord, int64) (int64, error) { return 0, nil }

	err := WithRetry(context.Background(), 3, "1", get, never, func(*models.COIRecord) error { return nil })
	assert.ErrorIs(t, err, utils.ErrRowVersionConflict)
}

func TestWithRetryNotFoundAndMutateError(t *testing.T) {
	missing := func(context.Context, string) (*models.COIRecord, error) { return nil, nil }
	update := func(context.Context, *models.COIRecord, int64) (int64, error) { return 1, nil }

	err := WithRetry(context.Background(), 3, "x", missing, update, func(*models.COIRecord) error { return nil })
	assert.ErrorIs(t, err, utils.ErrNotFound)

	boom := errors.New("boom")
	found := func(context.Context, string) (*models.COIRecord, error) { return &models.COIRecord{ID: "1"}, nil }
	err = WithRetry(context.Background(), 3, "1", found, update, func(*models.COIRecord) error { return boom })
	assert.ErrorIs(t, err, boom)
}
