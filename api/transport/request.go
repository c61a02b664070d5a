package transport

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/fastygo/taskflow/domain"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TeamID      string `json:"teamId"`
}

type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	ProjectID   string `json:"projectId"`
}

// Decode unmarshals body into dst. An empty body decodes as {} so that
// missing fields surface as validation errors instead of parse errors.
func Decode(body []byte, dst interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.ErrInvalidPayload
	}
	return nil
}

// ParseDate accepts RFC 3339 timestamps and plain calendar dates.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}
	return nil, domain.Invalid("dueDate must be an RFC 3339 timestamp or a YYYY-MM-DD date")
}

// DecodeTaskPatch builds a sparse patch. Absent keys and null values leave
// fields untouched, except "dueDate": null which clears the due date.
// "project" is accepted as an alias of "projectId".
func DecodeTaskPatch(body []byte) (domain.TaskPatch, error) {
	var patch domain.TaskPatch
	if len(bytes.TrimSpace(body)) == 0 {
		return patch, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return patch, domain.ErrInvalidPayload
	}

	str := func(key string) (*string, error) {
		raw, ok := fields[key]
		if !ok || isNull(raw) {
			return nil, nil
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, domain.Invalid(key + " must be a string")
		}
		return &v, nil
	}

	var err error
	if patch.Title, err = str("title"); err != nil {
		return patch, err
	}
	if patch.Description, err = str("description"); err != nil {
		return patch, err
	}
	if patch.AssignedTo, err = str("assignedTo"); err != nil {
		return patch, err
	}
	if patch.ProjectID, err = str("projectId"); err != nil {
		return patch, err
	}
	if patch.ProjectID == nil {
		if patch.ProjectID, err = str("project"); err != nil {
			return patch, err
		}
	}

	status, err := str("status")
	if err != nil {
		return patch, err
	}
	if status != nil {
		s := domain.TaskStatus(*status)
		patch.Status = &s
	}

	priority, err := str("priority")
	if err != nil {
		return patch, err
	}
	if priority != nil {
		p := domain.TaskPriority(*priority)
		patch.Priority = &p
	}

	if raw, ok := fields["dueDate"]; ok {
		if isNull(raw) {
			patch.ClearDueDate = true
		} else {
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return patch, domain.Invalid("dueDate must be a string")
			}
			if v == "" {
				patch.ClearDueDate = true
			} else if patch.DueDate, err = ParseDate(v); err != nil {
				return patch, err
			}
		}
	}

	return patch, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
