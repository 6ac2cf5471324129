package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/calendar-assistant/internal/api"
	"github.com/avolkov/calendar-assistant/internal/dates"
	"github.com/avolkov/calendar-assistant/internal/model"
)

// fakeIdentity is a static IdentityProvider for tests.
type fakeIdentity struct {
	ident *model.Identity
}

func (f fakeIdentity) Current() *model.Identity { return f.ident }

func alice() fakeIdentity {
	return fakeIdentity{ident: &model.Identity{UserID: 7, Login: "alice"}}
}

func newRepo(t *testing.T, handler http.Handler, id IdentityProvider) *Repository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(api.NewClient(srv.URL, time.Second), id, nil)
}

func TestListBucketsTasksByDay(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tasks": []map[string]interface{}{
				{"id": 1, "title": "late", "task_date": "2024-03-05T17:00:00", "priority": 1, "user_id": 7, "created_at": "2024-03-01T10:00:00"},
				{"id": 2, "title": "early", "task_date": "2024-03-05T09:00:00", "priority": 2, "user_id": 7, "created_at": "2024-03-01T11:00:00"},
				{"id": 3, "title": "other day", "task_date": "2024-03-06", "user_id": 7},
			},
		})
	})

	repo := newRepo(t, handler, alice())
	buckets := repo.List(context.Background(), "2024-03-01", "2024-03-31")

	day := buckets.Day(dates.Key("2024-03-05"))
	require.Len(t, day, 2)
	assert.Equal(t, "early", day[0].Title)
	assert.Equal(t, "late", day[1].Title)
	assert.Len(t, buckets.Day(dates.Key("2024-03-06")), 1)
}

func TestListFiltersForeignTasks(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tasks": []map[string]interface{}{
				{"id": 1, "title": "mine", "task_date": "2024-03-05", "user_id": 7},
				{"id": 2, "title": "not mine", "task_date": "2024-03-05", "user_id": 8},
			},
		})
	})

	repo := newRepo(t, handler, alice())
	day := repo.List(context.Background(), "2024-03-01", "2024-03-31").Day(dates.Key("2024-03-05"))
	require.Len(t, day, 1)
	assert.Equal(t, "mine", day[0].Title)
}

func TestListSwallowsServerErrors(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	repo := newRepo(t, handler, alice())
	buckets := repo.List(context.Background(), "2024-03-01", "2024-03-31")
	assert.Empty(t, buckets)
}

func TestListUnreachableServerYieldsEmpty(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	repo := New(client, alice(), nil)

	buckets := repo.List(context.Background(), "2024-03-01", "2024-03-31")
	assert.Empty(t, buckets)
}

func TestListAnonymousNeverCallsServer(t *testing.T) {
	var calls int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	})

	repo := newRepo(t, handler, fakeIdentity{})
	buckets := repo.List(context.Background(), "2024-03-01", "2024-03-31")

	assert.Empty(t, buckets)
	assert.Zero(t, atomic.LoadInt64(&calls))
}

func TestCreateRoundTrip(t *testing.T) {
	var stored []map[string]interface{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/task":
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "09:30:00", body["due_time"])
			body["id"] = float64(1)
			stored = append(stored, body)
			json.NewEncoder(w).Encode(body)
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/tasks":
			json.NewEncoder(w).Encode(map[string]interface{}{"tasks": stored})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	repo := newRepo(t, handler, alice())

	created, err := repo.Create(context.Background(), Fields{
		Title:    "standup",
		Priority: model.PriorityHigh,
		Day:      dates.Key("2024-03-05"),
		DueTime:  dates.ParseClock("9:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	day := repo.List(context.Background(), "2024-03-01", "2024-03-31").Day(dates.Key("2024-03-05"))
	require.Len(t, day, 1)
	assert.Equal(t, "standup", day[0].Title)
	assert.Equal(t, dates.Key("2024-03-05"), day[0].Day)
	assert.Equal(t, model.PriorityHigh, day[0].Priority)
}

func TestGetConvertsWireTask(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/task/42" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 42, "title": "standup", "task_date": "2024-03-05T09:00:00",
			"priority": 1, "due_time": "09:30:00", "user_id": 7,
		})
	})

	repo := newRepo(t, handler, alice())
	task, err := repo.Get(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, int64(42), task.ID)
	assert.Equal(t, dates.Key("2024-03-05"), task.Day)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	assert.Equal(t, "09:30", task.DueTime.Display())
}

func TestGetMissingTaskIsNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "task not found"})
	})

	repo := newRepo(t, handler, alice())
	_, err := repo.Get(context.Background(), 99)
	assert.True(t, api.IsNotFound(err))
}

func TestUpdatePropagatesServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "task not found"})
	})

	repo := newRepo(t, handler, alice())
	_, err := repo.Update(context.Background(), 99, Fields{Title: "x", Day: "2024-03-05"})

	var reqErr *api.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "task not found", reqErr.Message)
}

func TestFromWireNormalizesDates(t *testing.T) {
	task := FromWire(api.Task{
		ID:        4,
		Title:     "x",
		TaskDate:  "2024-03-05T15:30:00",
		CreatedAt: "2024-03-01T08:00:00",
	})

	assert.Equal(t, dates.Key("2024-03-05"), task.Day)
	assert.Equal(t, 15, task.Scheduled.Hour())
	assert.Equal(t, 2024, task.CreatedAt.Year())

	bad := FromWire(api.Task{ID: 5, Title: "y", TaskDate: "garbage"})
	assert.Equal(t, dates.KeyInvalid, bad.Day)

	missing := FromWire(api.Task{ID: 6, Title: "z"})
	assert.Equal(t, dates.KeyNoDate, missing.Day)
}
