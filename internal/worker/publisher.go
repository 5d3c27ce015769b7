package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/Shergy82/broad-oak-group-ltd-sub002/internal/notify"
)

// Publisher publishes notification jobs to a Pub/Sub topic. It implements
// shift.Notifier and announcement.Broadcaster so domain services can enqueue
// delivery work without blocking the request path.
type Publisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// PublisherConfig holds configuration for the publisher.
type PublisherConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewPublisher creates a publisher bound to the notification topic.
func NewPublisher(ctx context.Context, cfg PublisherConfig) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &Publisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		logger:    cfg.Logger,
	}, nil
}

// NotifyUser enqueues a dispatch job for one user.
func (p *Publisher) NotifyUser(ctx context.Context, userID string, payload notify.Payload) error {
	return p.publish(ctx, JobMessage{
		JobType: JobTypeDispatch,
		UserID:  userID,
		Payload: payload,
	})
}

// NotifyAll enqueues a broadcast job for every subscribed user.
func (p *Publisher) NotifyAll(ctx context.Context, payload notify.Payload) error {
	return p.publish(ctx, JobMessage{
		JobType: JobTypeBroadcast,
		Payload: payload,
	})
}

func (p *Publisher) publish(ctx context.Context, job JobMessage) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encoding job: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{Data: data})
	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing %s job: %w", job.JobType, err)
	}

	p.logger.Debug().
		Str("job_type", job.JobType).
		Str("message_id", id).
		Msg("published notification job")
	return nil
}

// Close flushes pending messages and closes the client.
func (p *Publisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}
