package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/calendar-assistant/internal/dates"
)

func TestListTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tasks", r.URL.Path)
		assert.Equal(t, "2024-03-01", r.URL.Query().Get("date_from"))
		assert.Equal(t, "2024-03-31", r.URL.Query().Get("date_to"))
		assert.Equal(t, "7", r.URL.Query().Get("user_id"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"tasks": []map[string]interface{}{
				{"id": 1, "title": "A", "priority": 1, "task_date": "2024-03-05", "user_id": 7},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	got, err := c.ListTasks(context.Background(), dates.Key("2024-03-01"), dates.Key("2024-03-31"), 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, int64(7), got[0].UserID)
}

func TestCreateTaskErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "title is required"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.CreateTask(context.Background(), Task{})
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnprocessableEntity, reqErr.Status)
	assert.Equal(t, "title is required", reqErr.Message)
}

func TestRequestErrorPrefersMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "bad range", "detail": "ignored"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.ListTasks(context.Background(), "x", "y", 0)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "bad range", reqErr.Message)
	assert.Contains(t, reqErr.Error(), "400")
}

func TestDeleteTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/task/42", r.URL.Path)
		w.Write([]byte("true"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	assert.NoError(t, c.DeleteTask(context.Background(), 42))
}

func TestGetParamsPlainTextAnd404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("user_id") == "1" {
			w.Write([]byte("my profile note"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)

	note, err := c.GetParams(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "my profile note", note)

	_, err = c.GetParams(context.Background(), 2)
	assert.True(t, IsNotFound(err))
}

func TestWireTimeDecoding(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		display string
		wire    string
	}{
		{"string form", `"09:30:00"`, "09:30", "09:30:00"},
		{"short string", `"9:30"`, "09:30", "09:30:00"},
		{"object form", `{"hour":14,"minute":5,"second":0}`, "14:05", "14:05:00"},
		{"null", `null`, "", ""},
		{"empty string", `""`, "", ""},
		{"unreadable text kept verbatim", `"after lunch"`, "after lunch", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w WireTime
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &w))
			assert.Equal(t, tt.display, w.Value.Display())
			assert.Equal(t, tt.wire, w.Value.Wire())
		})
	}
}

func TestWireTimeMarshalNormalizes(t *testing.T) {
	w := WireTime{Value: dates.ParseClock("9:30")}
	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.Equal(t, `"09:30:00"`, string(data))

	data, err = json.Marshal(WireTime{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestAuthenticate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/user/user/auth", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("login"))
		json.NewEncoder(w).Encode(User{UserID: 9, Login: "alice", Description: "hi"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	user, err := c.Authenticate(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.UserID)
	assert.Equal(t, "alice", user.Login)
}
