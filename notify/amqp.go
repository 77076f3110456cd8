package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"food-share-api/models"
)

const dialAttempts = 5

// Publisher is the part of *amqp.Channel the courier needs.
type Publisher interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Connection is an open broker connection with one channel.
type Connection struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
}

// Dial connects to RabbitMQ, retrying with exponential backoff.
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Connection, error) {
	var lastErr error
	for i := 1; i <= dialAttempts; i++ {
		conn, err := amqp.Dial(url)
		if err == nil {
			ch, chErr := conn.Channel()
			if chErr != nil {
				_ = conn.Close()
				return nil, fmt.Errorf("open channel: %w", chErr)
			}
			logger.Info("connected to rabbitmq")
			return &Connection{Conn: conn, Channel: ch}, nil
		}
		lastErr = err
		logger.Warn("rabbitmq dial failed", slog.Int("attempt", i), slog.Any("error", err))
		if i == dialAttempts {
			break
		}

		backoff := time.Second * time.Duration(math.Pow(2, float64(i-1)))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, fmt.Errorf("connect to rabbitmq after %d attempts: %w", dialAttempts, lastErr)
}

func (c *Connection) Close() error {
	if c.Channel != nil {
		if err := c.Channel.Close(); err != nil {
			return fmt.Errorf("close channel: %w", err)
		}
	}
	if c.Conn != nil {
		if err := c.Conn.Close(); err != nil {
			return fmt.Errorf("close connection: %w", err)
		}
	}
	return nil
}

// AMQPCourier publishes temporary passwords to a topic exchange consumed by
// the SMS gateway.
type AMQPCourier struct {
	pub      Publisher
	exchange string
	logger   *slog.Logger
}

// NewAMQPCourier declares exchange (durable topic) and returns a courier bound to it.
func NewAMQPCourier(pub Publisher, exchange string, logger *slog.Logger) (*AMQPCourier, error) {
	if err := pub.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPCourier{pub: pub, exchange: exchange, logger: logger}, nil
}

func (c *AMQPCourier) DeliverTemporaryPassword(ctx context.Context, user models.User, temp string) error {
	body, err := json.Marshal(newRecoveryMessage(user, temp))
	if err != nil {
		return fmt.Errorf("marshal recovery message: %w", err)
	}

	if err := c.pub.PublishWithContext(
		ctx,
		c.exchange,
		RecoveryRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish recovery message: %w", err)
	}

	c.logger.InfoContext(ctx, "recovery message published", slog.Uint64("user_id", uint64(user.ID)))
	return nil
}
