package domain

import "time"

// Project belongs to exactly one team and inherits its visibility.
type Project struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Team        TeamRef   `json:"team"`
	OwnerID     string    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectRef is a populated project reference embedded in tasks.
type ProjectRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
