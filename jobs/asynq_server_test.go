package jobs

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (f fakeInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return f.info, f.err
}

func healthRequest(t *testing.T, h *Handler) (int, map[string]any) {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/jobs", h.MountRoutes)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestJobsHealthReportsQueueDepth(t *testing.T) {
	h := NewHandler(nil, nil)
	h.inspector = fakeInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 3, Active: 1, Retry: 2}}

	code, body := healthRequest(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "default", body["queue"])
	assert.EqualValues(t, 3, body["pending"])
	assert.EqualValues(t, 1, body["active"])
	assert.EqualValues(t, 2, body["retry"])
}

func TestJobsHealthWithoutInspector(t *testing.T) {
	code, body := healthRequest(t, NewHandler(nil, nil))
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["pending"])
}

func TestJobsHealthMissingQueueIsEmpty(t *testing.T) {
	h := NewHandler(nil, nil)
	h.inspector = fakeInspector{err: asynq.ErrQueueNotFound}

	code, body := healthRequest(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "default", body["queue"])
}

func TestJobsHealthRedisDown(t *testing.T) {
	h := NewHandler(nil, nil)
	h.inspector = fakeInspector{err: errors.New("dial tcp: connection refused")}

	code, body := healthRequest(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, false, body["success"])
}
