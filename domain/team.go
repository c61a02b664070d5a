package domain

import (
	"slices"
	"time"
)

// Team is a group of users. Its owner and members see every project under it.
type Team struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Owner       UserRef   `json:"owner"`
	Members     []string  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// VisibleTo reports whether userID may read or use the team.
// The owner counts even when missing from Members.
func (t *Team) VisibleTo(userID string) bool {
	if t == nil || userID == "" {
		return false
	}
	return t.Owner.ID == userID || slices.Contains(t.Members, userID)
}

// TeamRef is a populated team reference embedded in projects.
type TeamRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
