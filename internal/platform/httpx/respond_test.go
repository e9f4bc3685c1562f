package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellvision/wellvision/internal/shared"
)

func TestSuccessMergesFlag(t *testing.T) {
	rr := httptest.NewRecorder()
	Success(rr, http.StatusCreated, map[string]any{"nextBillNo": "INV-0005"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "INV-0005", body["nextBillNo"])
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{shared.NewValidationError("tel", "bad"), http.StatusBadRequest},
		{fmt.Errorf("format: %w", shared.ErrInvalidArgument), http.StatusBadRequest},
		{fmt.Errorf("get: %w", shared.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: %w", shared.ErrConflict, shared.ErrDuplicateKey), http.StatusConflict},
		{fmt.Errorf("insert: %w", shared.ErrDuplicateKey), http.StatusInternalServerError},
		{fmt.Errorf("incr: %w", shared.ErrStorageUnavailable), http.StatusServiceUnavailable},
		{fmt.Errorf("get invoice 7: %w", shared.ErrCorruptRecord), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		RespondError(rr, tc.err)
		assert.Equal(t, tc.status, rr.Code, tc.err.Error())

		var body Envelope
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.NotEmpty(t, body.Message)
	}
}

func TestRespondErrorIncludesFieldErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, fmt.Errorf("create: %w", &shared.ValidationError{Fields: map[string]string{"items[0].rs": "must contain digits only"}}))

	var body Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "must contain digits only", body.Errors["items[0].rs"])
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("pq: password authentication failed"))
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Nimal"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "Nimal", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	err := DecodeJSON(req, &dst)
	require.ErrorIs(t, err, shared.ErrValidation)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	require.ErrorIs(t, DecodeJSON(req, &dst), shared.ErrValidation)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"age":"ten"}`))
	err = DecodeJSON(req, &dst)
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "age")
}
