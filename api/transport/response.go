package transport

import "github.com/fastygo/taskflow/domain"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SessionResponse struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

type UserResponse struct {
	User domain.PublicUser `json:"user"`
}

type TeamsResponse struct {
	Teams []domain.Team `json:"teams"`
}

type TeamResponse struct {
	Team *domain.Team `json:"team"`
}

type ProjectsResponse struct {
	Projects []domain.Project `json:"projects"`
}

type ProjectResponse struct {
	Project *domain.Project `json:"project"`
}

type TasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

type TaskResponse struct {
	Task *domain.Task `json:"task"`
}

type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Services  map[string]bool `json:"services"`
	Buffer    *BufferStatus   `json:"buffer,omitempty"`
}

type BufferStatus struct {
	Online bool `json:"online"`
	Size   int  `json:"size"`
}
