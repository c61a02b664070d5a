package usecase

import "context"

// OnboardingBuffer abstracts the buffer processor so the seeder stays
// storage-agnostic. A buffered seed is replayed later for userID.
type OnboardingBuffer interface {
	BufferOnboarding(ctx context.Context, userID string) error
}
