package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poofware/coi-service/internal/models"
)

func TestDefaultDataset(t *testing.T) {
	cois, props, err := DefaultDataset()
	require.NoError(t, err)
	require.Len(t, cois, 6)
	require.Len(t, props, 6)

	ids := map[string]bool{}
	for _, c := range cois {
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
		assert.True(t, c.Status.Valid(), c.ID)
		assert.True(t, c.ReminderStatus.Valid(), c.ID)
		assert.NotNil(t, models.FindProperty(props, c.PropertyID), "record %s has no property", c.ID)
		assert.EqualValues(t, 1, c.RowVersion)
	}

	// legacy reminder values are normalized on decode
	assert.Equal(t, models.ReminderSent, cois[1].ReminderStatus)
	assert.Equal(t, models.ReminderNotSent, cois[2].ReminderStatus)

	for _, p := range props {
		assert.Equal(t, p.Name, p.Label)
		assert.Equal(t, p.Name, p.Value)
	}
}

func TestDefaultDatasetReturnsFreshCopies(t *testing.T) {
	a, _, err := DefaultDataset()
	require.NoError(t, err)
	a[0].TenantName = "changed"

	b, _, err := DefaultDataset()
	require.NoError(t, err)
	assert.Equal(t, "Johnson & Sons", b[0].TenantName)
}
