package entities

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind_HTTPStatus(t *testing.T) {
	testCases := []struct {
		kind     ErrorKind
		expected int
	}{
		{KindMissingParameter, http.StatusBadRequest},
		{KindInvalidDateFormat, http.StatusBadRequest},
		{KindInvalidStationFormat, http.StatusBadRequest},
		{KindInvalidStation, http.StatusBadRequest},
		{KindInvalidStationCount, http.StatusBadRequest},
		{KindInvalidBody, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindMethodNotAllowed, http.StatusMethodNotAllowed},
		{KindInternal, http.StatusInternalServerError},
		{ErrorKind("unknown"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.kind.HTTPStatus())
		})
	}
}

func TestInvalidStation_ListsEveryCode(t *testing.T) {
	err := InvalidStation([]int{99999, 12345})
	assert.Equal(t, "Invalid station codes: [99999, 12345]", err.Message)
	assert.Equal(t, []int{99999, 12345}, err.Offending)
	assert.Equal(t, http.StatusBadRequest, err.Kind.HTTPStatus())
}

func TestInternal_WrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Internal(cause)

	assert.Equal(t, MsgInternal, err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAsQueryError(t *testing.T) {
	t.Run("wrapped query error", func(t *testing.T) {
		wrapped := fmt.Errorf("context: %w", NotFound("No data found for this date"))
		qe := AsQueryError(wrapped)
		assert.Equal(t, KindNotFound, qe.Kind)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		qe := AsQueryError(errors.New("boom"))
		assert.Equal(t, KindInternal, qe.Kind)
		assert.Equal(t, MsgInternal, qe.Message)
	})
}
