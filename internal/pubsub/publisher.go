package pubsub

import (
	"context"
	"fmt"

	gcppubsub "cloud.google.com/go/pubsub"
)

// Publisher dispatches one job payload to the configured topic. Publish is
// synchronous: it returns only after the server acknowledges the message, so
// a failure is attributable to the specific row being dispatched.
type Publisher interface {
	Publish(ctx context.Context, data []byte) (string, error)
}

// GooglePublisher implements Publisher on a Cloud Pub/Sub topic.
type GooglePublisher struct {
	client *gcppubsub.Client
	topic  *gcppubsub.Topic
}

// NewGooglePublisher connects to Pub/Sub and binds the named topic.
func NewGooglePublisher(ctx context.Context, projectID, topic string) (*GooglePublisher, error) {
	client, err := gcppubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}
	return &GooglePublisher{client: client, topic: client.Topic(topic)}, nil
}

// Publish sends data and waits for the server-assigned message ID.
func (p *GooglePublisher) Publish(ctx context.Context, data []byte) (string, error) {
	result := p.topic.Publish(ctx, &gcppubsub.Message{Data: data})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish to %s: %w", p.topic.ID(), err)
	}
	return id, nil
}

// Close flushes pending publishes and releases the client.
func (p *GooglePublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}

var _ Publisher = (*GooglePublisher)(nil)
