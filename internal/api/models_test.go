package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/phrazzld/biblioteca-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	t.Run("encodes the calendar day only", func(t *testing.T) {
		data, err := json.Marshal(NewDate(time.Date(2025, time.March, 14, 23, 59, 0, 0, time.UTC)))
		require.NoError(t, err)
		assert.Equal(t, `"2025-03-14"`, string(data))
	})

	t.Run("rejects other layouts", func(t *testing.T) {
		for _, raw := range []string{`"14/03/2025"`, `"2025-03-14T10:00:00Z"`, `20250314`} {
			var d Date
			assert.Error(t, json.Unmarshal([]byte(raw), &d), raw)
		}
	})
}

func TestLoanToResponse(t *testing.T) {
	returned := time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC)
	loan := &domain.Loan{
		ID:         3,
		BookID:     1,
		UserID:     2,
		LoanDate:   time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		ReturnDate: &returned,
		Status:     domain.LoanStatusReturned,
	}

	data, err := json.Marshal(loanToResponse(loan))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 3,
		"libro_id": 1,
		"usuario_id": 2,
		"fecha_prestamo": "2025-03-14",
		"fecha_devolucion": "2025-03-20",
		"estado": "devuelto"
	}`, string(data))
}
