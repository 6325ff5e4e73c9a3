package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrivekids/therapy_booking/internal/service"
	"go.uber.org/zap"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"slot conflict", &service.SlotConflictError{
			Date:     time.Date(2025, time.November, 14, 0, 0, 0, 0, time.UTC),
			SlotTime: "10:00",
		}, http.StatusConflict},
		{"wrapped slot conflict", fmt.Errorf("create series: %w", &service.SlotConflictError{
			Date:     time.Date(2025, time.November, 14, 0, 0, 0, 0, time.UTC),
			SlotTime: "10:00",
		}), http.StatusConflict},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"weekend start", service.ErrInvalidStartDate, http.StatusBadRequest},
		{"invalid recurrence", service.ErrInvalidRecurrence, http.StatusBadRequest},
		{"end date mismatch", service.ErrEndDateMismatch, http.StatusBadRequest},
		{"no slots configured", service.ErrNoSlotsConfigured, http.StatusConflict},
		{"slot not offered", service.ErrSlotNotOffered, http.StatusBadRequest},
		{"malformed slot time", service.ErrMalformedSlotTime, http.StatusBadRequest},
		{"leave already processed", service.ErrAlreadyProcessed, http.StatusConflict},
		{"booking not active", service.ErrBookingNotActive, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, zap.NewNop(), tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestRespondErrorConflictNamesDate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, zap.NewNop(), &service.SlotConflictError{
		Date:     time.Date(2025, time.November, 14, 0, 0, 0, 0, time.UTC),
		SlotTime: "10:00",
	})

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// UI нужна конкретная дата конфликта, чтобы предложить альтернативу
	assert.Contains(t, resp.Details, "2025-11-14")
}
