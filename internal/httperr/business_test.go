package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("ledger: create: %w", ErrConflict("slot_taken"))

	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))
	assert.True(t, IsBusiness(err, "slot_taken"))
	assert.False(t, IsBusiness(errors.New("slot_taken"), "slot_taken"))
}

func TestFromErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", ErrInvalidInput("invalid_date"), http.StatusBadRequest, "invalid_date"},
		{"conflict", ErrConflict("slot_taken"), http.StatusConflict, "slot_taken"},
		{"not found", ErrNotFound("appointment_not_found"), http.StatusNotFound, "appointment_not_found"},
		{"invariant", ErrInvariant("slots_overlap"), http.StatusInternalServerError, "slots_overlap"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body HTTPError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestIsExclusionConflict(t *testing.T) {
	assert.True(t, IsExclusionConflict(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsExclusionConflict(fmt.Errorf("save: %w", &pgconn.PgError{Code: "23P01"})))
	assert.False(t, IsExclusionConflict(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsExclusionConflict(errors.New("other")))
}
