package api

import (
	"encoding/json"
	"strings"

	"github.com/avolkov/calendar-assistant/internal/dates"
)

// WireTime decodes the server's due_time field, which may arrive as an
// "HH:MM[:SS]" string, as an {hour, minute, second} object, or as
// null. It is decoded exactly once here; the rest of the code only
// sees dates.TimeValue.
type WireTime struct {
	Value dates.TimeValue
}

// clockObject is the object form some backends serialize time values as.
type clockObject struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// UnmarshalJSON accepts string, object, and null time representations.
func (w *WireTime) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		w.Value = dates.MissingTime()
		return nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var obj clockObject
		if err := json.Unmarshal(data, &obj); err != nil {
			w.Value = dates.RawText(trimmed)
			return nil
		}
		w.Value = dates.Clock(obj.Hour, obj.Minute, obj.Second)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		w.Value = dates.RawText(trimmed)
		return nil
	}
	w.Value = dates.ParseClock(s)
	return nil
}

// MarshalJSON emits the normalized HH:MM:SS wire form, or null when
// the value is missing or was never a readable clock time.
func (w WireTime) MarshalJSON() ([]byte, error) {
	wire := w.Value.Wire()
	if wire == "" {
		return []byte("null"), nil
	}
	return json.Marshal(wire)
}

// Task is the wire shape of a task record.
type Task struct {
	ID          int64    `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      bool     `json:"status"`
	Priority    int      `json:"priority,omitempty"`
	TaskDate    string   `json:"task_date,omitempty"`
	DueTime     WireTime `json:"due_time,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UserID      int64    `json:"user_id,omitempty"`
}

// listTasksResponse wraps GET /tasks.
type listTasksResponse struct {
	Tasks []Task `json:"tasks"`
}

// User is the wire shape of a user record.
type User struct {
	UserID      int64  `json:"user_id"`
	Login       string `json:"login"`
	Description string `json:"description"`
}

// userUpdateRequest is the body of PUT /user/{id}.
type userUpdateRequest struct {
	ID       int64  `json:"id"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

// credentials is the body of POST /user.
type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// paramsRequest is the body of POST /params.
type paramsRequest struct {
	UserID      int64  `json:"user_id"`
	Description string `json:"description"`
}
