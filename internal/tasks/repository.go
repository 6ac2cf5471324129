// Package tasks implements the repository for remote task records: it
// round-trips the wire format, normalizes dates and times at the
// boundary, and produces per-day buckets for the calendar.
package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/avolkov/calendar-assistant/internal/api"
	"github.com/avolkov/calendar-assistant/internal/calendar"
	"github.com/avolkov/calendar-assistant/internal/dates"
	"github.com/avolkov/calendar-assistant/internal/model"
)

// createdAtLayout is the wire form of created_at timestamps.
const createdAtLayout = "2006-01-02T15:04:05"

// ErrNotSignedIn is returned by operations that require an identity
// when the session is anonymous.
var ErrNotSignedIn = errors.New("not signed in")

// IdentityProvider supplies the current user. The repository never
// reads ambient session state; the provider is injected at
// construction so tests can use fake identities.
type IdentityProvider interface {
	// Current returns the signed-in identity, or nil when anonymous.
	Current() *model.Identity
}

// Fields holds the editable task fields submitted by forms. The due
// time is normalized to HH:MM:SS before transmission.
type Fields struct {
	Title       string
	Description string
	Done        bool
	Priority    int
	Day         dates.Key
	DueTime     dates.TimeValue
}

// Repository performs remote task operations scoped to the current
// identity.
type Repository struct {
	client   *api.Client
	identity IdentityProvider
	log      lgr.L
}

// New creates a Repository using the given API client and identity
// provider.
func New(client *api.Client, identity IdentityProvider, log lgr.L) *Repository {
	if log == nil {
		log = lgr.Default()
	}
	return &Repository{client: client, identity: identity, log: log}
}

// List fetches every task in the closed day range [from, to] and
// returns them bucketed by canonical day key.
//
// Reads degrade silently: any transport or status failure is logged
// and reported as an empty mapping, indistinguishable from an empty
// calendar. Without a signed-in identity no request is made at all and
// the result is empty, so nothing is exposed pre-login.
func (r *Repository) List(ctx context.Context, from, to dates.Key) calendar.Buckets {
	ident := r.identity.Current()
	if ident == nil {
		return calendar.Buckets{}
	}

	wire, err := r.client.ListTasks(ctx, from, to, ident.UserID)
	if err != nil {
		r.log.Logf("[WARN] task fetch %s..%s failed: %v", from, to, err)
		return calendar.Buckets{}
	}

	// The server is expected to filter by user already; filtering
	// again here keeps a buggy or permissive server from leaking
	// someone else's tasks into the view.
	records := make([]model.Task, 0, len(wire))
	for _, wt := range wire {
		if wt.UserID != 0 && wt.UserID != ident.UserID {
			continue
		}
		records = append(records, FromWire(wt))
	}

	return calendar.Aggregate(records)
}

// Get fetches a single task by id.
func (r *Repository) Get(ctx context.Context, id int64) (model.Task, error) {
	wire, err := r.client.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	return FromWire(wire), nil
}

// Create submits a new task. Failures surface to the caller; nothing
// is applied locally until a refetch confirms the write.
func (r *Repository) Create(ctx context.Context, fields Fields) (model.Task, error) {
	created, err := r.client.CreateTask(ctx, r.toWire(0, fields))
	if err != nil {
		return model.Task{}, err
	}
	return FromWire(created), nil
}

// Update overwrites the editable fields of an existing task.
func (r *Repository) Update(ctx context.Context, id int64, fields Fields) (model.Task, error) {
	updated, err := r.client.UpdateTask(ctx, id, r.toWire(id, fields))
	if err != nil {
		return model.Task{}, err
	}
	return FromWire(updated), nil
}

// Delete removes a task by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.client.DeleteTask(ctx, id)
}

// toWire converts form fields to the wire shape, attaching the current
// user when one is signed in. An anonymous mutation is still sent; the
// server decides whether to accept it.
func (r *Repository) toWire(id int64, fields Fields) api.Task {
	taskDate := string(fields.Day)
	if fields.Day.IsDay() {
		// The server stores task_date as a datetime; send midnight.
		taskDate += "T00:00:00"
	}

	task := api.Task{
		ID:          id,
		Title:       fields.Title,
		Description: fields.Description,
		Status:      fields.Done,
		Priority:    fields.Priority,
		TaskDate:    taskDate,
		DueTime:     api.WireTime{Value: fields.DueTime},
	}
	if ident := r.identity.Current(); ident != nil {
		task.UserID = ident.UserID
	}
	return task
}

// FromWire converts a wire task into the canonical internal record.
// Date normalization happens here and nowhere else.
func FromWire(wt api.Task) model.Task {
	day := dates.Normalize(wt.TaskDate)

	var scheduled time.Time
	if t, err := time.ParseInLocation(createdAtLayout, wt.TaskDate, time.Local); err == nil {
		scheduled = t
	} else if day.IsDay() {
		scheduled = day.Time()
	}

	var createdAt time.Time
	if t, err := time.ParseInLocation(createdAtLayout, wt.CreatedAt, time.Local); err == nil {
		createdAt = t
	}

	return model.Task{
		ID:          wt.ID,
		Title:       wt.Title,
		Description: wt.Description,
		Done:        wt.Status,
		Priority:    wt.Priority,
		Day:         day,
		Scheduled:   scheduled,
		DueTime:     wt.DueTime.Value,
		CreatedAt:   createdAt,
		UserID:      wt.UserID,
	}
}
