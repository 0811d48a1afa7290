package kafka

import (
	"context"

	"showcase/models"
)

// NoopPublisher drops events; used when kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, models.ShowcaseEvent) error { return nil }
func (NoopPublisher) Close() error                                        { return nil }
