package daterange

import (
	"testing"
	"time"

	customerrors "github.com/axellelanca/itrules/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	r := DateRange{From: "2024-01-01T00:00", To: "2024-01-31T23:59"}
	got, err := r.Resolve(ist)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01T00:00", got.FromRaw)
	assert.Equal(t, "2024-01-31T23:59", got.ToRaw)
	assert.Equal(t, "2023-12-31T18:30:00.000Z", got.FromISO)
	assert.Equal(t, "2024-01-31T18:29:00.000Z", got.ToISO)
}

func TestResolve_Missing(t *testing.T) {
	for _, r := range []DateRange{
		{},
		{From: "2024-01-01T00:00"},
		{To: "2024-01-01T00:00"},
		{From: "  ", To: "2024-01-01T00:00"},
	} {
		_, err := r.Resolve(time.UTC)
		assert.ErrorIs(t, err, customerrors.ErrMissingDateRange)
	}
}

func TestResolve_Invalid(t *testing.T) {
	_, err := DateRange{From: "yesterday", To: "2024-01-01T00:00"}.Resolve(time.UTC)
	require.ErrorIs(t, err, customerrors.ErrInvalidDate)

	var dateErr customerrors.ErrInvalidDateValue
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "from", dateErr.Field)

	_, err = DateRange{From: "2024-01-01T00:00", To: "2024-13-01T00:00"}.Resolve(time.UTC)
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "to", dateErr.Field)
}

func TestToISO_AcceptsOffsets(t *testing.T) {
	got, err := ToISO("2024-03-10T12:00:00+05:30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10T06:30:00.000Z", got)

	got, err = ToISO("2024-03-10", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10T00:00:00.000Z", got)
}
