package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrCast is returned when a request field cannot be converted to the
// type the task record expects.
var ErrCast = errors.New("cast failed")

type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TaskFields holds the fields present in a create or update request.
// A nil pointer means the field was not sent.
type TaskFields struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Empty reports whether no recognized field was sent.
func (f TaskFields) Empty() bool {
	return f.Title == nil && f.Completed == nil
}

// Apply merges the present fields into t.
func (f TaskFields) Apply(t *Task) {
	if f.Title != nil {
		t.Title = *f.Title
	}
	if f.Completed != nil {
		t.Completed = *f.Completed
	}
}

// NewTask builds a record from creation fields, defaulting completed to false.
func NewTask(id string, f TaskFields) Task {
	t := Task{ID: id}
	f.Apply(&t)
	return t
}

// TaskInput is a request body as received: the raw JSON of each key.
// It is handed to the store untouched and resolved there.
type TaskInput map[string]json.RawMessage

// ParseTaskInput decodes a request body. An empty body is an empty input;
// anything that is not a JSON object is rejected.
func ParseTaskInput(body []byte) (TaskInput, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return TaskInput{}, nil
	}
	var in TaskInput
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("invalid task body: %w", err)
	}
	if in == nil {
		// literal null
		return TaskInput{}, nil
	}
	return in, nil
}

// Fields resolves the recognized keys into typed fields. Unknown keys,
// including "id", are dropped.
func (in TaskInput) Fields() (TaskFields, error) {
	var f TaskFields
	if raw, ok := in["title"]; ok {
		title, err := castString(raw)
		if err != nil {
			return TaskFields{}, fmt.Errorf("title: %w", err)
		}
		f.Title = &title
	}
	if raw, ok := in["completed"]; ok {
		completed, err := castBool(raw)
		if err != nil {
			return TaskFields{}, fmt.Errorf("completed: %w", err)
		}
		f.Completed = &completed
	}
	return f, nil
}

func castString(raw json.RawMessage) (string, error) {
	var v any
	if err := decodeNumber(raw, &v); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCast, err)
	}
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCast, err)
		}
		return formatNumber(f), nil
	default:
		return "", fmt.Errorf("%w: %s is not a string", ErrCast, string(raw))
	}
}

func castBool(raw json.RawMessage) (bool, error) {
	var v any
	if err := decodeNumber(raw, &v); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCast, err)
	}
	switch val := v.(type) {
	case nil:
		return false, nil
	case bool:
		return val, nil
	case string:
		switch val {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			break
		}
		switch f {
		case 1:
			return true, nil
		case 0:
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %s is not a boolean", ErrCast, string(raw))
}

// formatNumber renders f the way JavaScript's String(number) does: plain
// decimal between 1e-6 and 1e21, exponent form outside that range.
func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs == 0 {
		return "0"
	}
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + exp
}

func decodeNumber(raw json.RawMessage, v *any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
