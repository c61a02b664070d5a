package domain

// Workspace bundles the onboarding content created for a new user.
// It is persisted as a single unit.
type Workspace struct {
	Team    *Team
	Project *Project
	Tasks   []*Task
}
