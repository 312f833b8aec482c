package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	start, end, err := parseDateRange("2025-01-01", "2025-01-05")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", start.Format(dateLayout))
	assert.Equal(t, "2025-01-05", end.Format(dateLayout))
	assert.Equal(t, "UTC", start.Location().String())

	_, _, err = parseDateRange("01/01/2025", "2025-01-05")
	assert.Error(t, err)

	_, _, err = parseDateRange("2025-01-01", "not-a-date")
	assert.Error(t, err)
}

func TestCreateBookingRequestToEntity(t *testing.T) {
	req := CreateBookingRequest{
		VehicleID:     3,
		CustomerID:    9,
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		StartDate:     "2025-03-10",
		EndDate:       "2025-03-12",
	}
	parsed, err := req.toEntity()
	require.NoError(t, err)
	assert.Equal(t, 3, parsed.VehicleID)
	assert.True(t, parsed.EndDate.After(parsed.StartDate))

	req.EndDate = "bad"
	_, err = req.toEntity()
	assert.Error(t, err)
}
