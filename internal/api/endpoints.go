package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/avolkov/calendar-assistant/internal/dates"
)

// ListTasks fetches all tasks in the closed day range [from, to],
// optionally scoped to a user id (0 means no scope parameter).
func (c *Client) ListTasks(ctx context.Context, from, to dates.Key, userID int64) ([]Task, error) {
	query := url.Values{
		"date_from": {string(from)},
		"date_to":   {string(to)},
	}
	if userID != 0 {
		query.Set("user_id", strconv.FormatInt(userID, 10))
	}

	var resp listTasksResponse
	if err := c.get(ctx, "/tasks", query, &resp); err != nil {
		return nil, fmt.Errorf("listing tasks %s..%s: %w", from, to, err)
	}
	return resp.Tasks, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, id int64) (Task, error) {
	var task Task
	if err := c.get(ctx, fmt.Sprintf("/task/%d", id), nil, &task); err != nil {
		return Task{}, fmt.Errorf("getting task %d: %w", id, err)
	}
	return task, nil
}

// CreateTask creates a task and returns the server's record.
func (c *Client) CreateTask(ctx context.Context, task Task) (Task, error) {
	var created Task
	if err := c.post(ctx, "/task", task, &created); err != nil {
		return Task{}, err
	}
	return created, nil
}

// UpdateTask overwrites the editable fields of an existing task.
func (c *Client) UpdateTask(ctx context.Context, id int64, task Task) (Task, error) {
	var updated Task
	if err := c.put(ctx, fmt.Sprintf("/task/%d", id), task, &updated); err != nil {
		return Task{}, err
	}
	return updated, nil
}

// DeleteTask removes a task by id.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	var ok bool
	if err := c.delete(ctx, fmt.Sprintf("/task/%d", id), &ok); err != nil {
		return err
	}
	return nil
}

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, login, password string) (User, error) {
	var user User
	err := c.post(ctx, "/user", credentials{Login: login, Password: password}, &user)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate checks credentials and returns the account record.
func (c *Client) Authenticate(ctx context.Context, login, password string) (User, error) {
	query := url.Values{
		"login":    {login},
		"password": {password},
	}
	var user User
	if err := c.get(ctx, "/user/user/auth", query, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// UpdateUser changes an account's password.
func (c *Client) UpdateUser(ctx context.Context, id int64, login, password string) (User, error) {
	body := userUpdateRequest{ID: id, Login: login, Password: password}
	var user User
	if err := c.put(ctx, fmt.Sprintf("/user/%d", id), body, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// GetParams fetches the user's saved profile note. A 404 means no note
// has been saved yet and is reported to the caller as-is.
func (c *Client) GetParams(ctx context.Context, userID int64) (string, error) {
	query := url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
	var note string
	if err := c.get(ctx, "/params", query, &note); err != nil {
		return "", err
	}
	return note, nil
}

// SaveParams stores the user's profile note.
func (c *Client) SaveParams(ctx context.Context, userID int64, description string) error {
	return c.post(ctx, "/params", paramsRequest{UserID: userID, Description: description}, nil)
}
