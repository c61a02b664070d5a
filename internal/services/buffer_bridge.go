package services

import (
	"context"

	"github.com/fastygo/taskflow/domain"
	"github.com/fastygo/taskflow/internal/infrastructure/buffer"
	"github.com/fastygo/taskflow/usecase"
)

const onboardingPriority = 2

// BufferBridge adapts the processor to the use case port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferOnboarding(ctx context.Context, userID string) error {
	if b.processor == nil || userID == "" {
		return domain.ErrInvalidPayload
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		UserID:    userID,
		Entity:    buffer.EntityOnboarding,
		Operation: buffer.OperationSeed,
		Priority:  onboardingPriority,
	})
}

var _ usecase.OnboardingBuffer = (*BufferBridge)(nil)
