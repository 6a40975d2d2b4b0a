package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", models.ErrCardNotFound, http.StatusNotFound, "CARD_NOT_FOUND"},
		{"wrapped validation", fmt.Errorf("checking: %w", models.ErrSameCard), http.StatusBadRequest, "SAME_CARD"},
		{"credentials", models.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"conflict", models.ErrVersionConflict, http.StatusConflict, "VERSION_CONFLICT"},
		{"card in use", models.ErrCardInUse, http.StatusConflict, "CARD_IN_USE"},
		{"timeout", context.DeadlineExceeded, http.StatusServiceUnavailable, "TIMEOUT"},
		{"internal", models.Internal(errors.New("pq: connection refused")), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			rec := httptest.NewRecorder()
			writeError(rec, logger, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error)
			assert.NotContains(t, body.Message, "pq:")
			assert.False(t, body.Timestamp.IsZero())
		})
	}
}

func TestParseAmount(t *testing.T) {
	d, err := parseAmount(json.RawMessage(`"12.5"`))
	require.NoError(t, err)
	assert.Equal(t, "12.50", d.StringFixed(2))

	d, err = parseAmount(json.RawMessage(`7`))
	require.NoError(t, err)
	assert.Equal(t, "7.00", d.StringFixed(2))

	for _, raw := range []string{"", `"abc"`, `"1` + strings.Repeat("0", maxAmountLength) + `"`} {
		_, err := parseAmount(json.RawMessage(raw))
		assert.ErrorIs(t, err, models.ErrInvalidAmount, raw)
	}
}

func TestCollect(t *testing.T) {
	calls := 0
	all, err := collect(func(p models.Page) ([]int, error) {
		calls++
		if p.Number < 2 {
			return make([]int, p.Size), nil
		}
		return []int{1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, all, 2*models.MaxPageSize+1)
}
