package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/grmskyi/user-auth-system/internal/domain/models"
	wrap "github.com/grmskyi/user-auth-system/pkg/logger/wrapper"
	"github.com/grmskyi/user-auth-system/pkg/rabbit"
	"github.com/rabbitmq/amqp091-go"
)

type UserProducer struct {
	client     *rabbit.RabbitMQ
	exchange   string
	routingKey string
}

// NewUserProducer declares the user-events topology (topic exchange, queue,
// binding) and returns a producer bound to it. The downstream user service
// declares the same topology, so either side may start first.
func NewUserProducer(client *rabbit.RabbitMQ, exchange, queue, routingKey string) (*UserProducer, error) {
	if err := client.DeclareTopology(exchange, queue, routingKey); err != nil {
		return nil, err
	}

	return &UserProducer{
		client:     client,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

// PublishUserCreated publishes the created-credential event. One attempt,
// no retries: the caller treats publication as best-effort.
func (r *UserProducer) PublishUserCreated(ctx context.Context, msg models.UserCreatedMessage) error {
	const op = "UserProducer.PublishUserCreated"

	body, err := json.Marshal(msg)
	if err != nil {
		ctx = wrap.WithAction(ctx, "marshal_user_created")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal message: %w", op, err))
	}

	if r.client.IsConnectionClosed() {
		return wrap.Error(ctx, fmt.Errorf("%s: rabbitMQ connection is closed", op))
	}

	if err := r.client.Channel.PublishWithContext(
		ctx,
		r.exchange,   // exchange
		r.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	); err != nil {
		ctx = wrap.WithAction(ctx, "publish_message")
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish with context: %w", op, err))
	}

	return nil
}
