// Package notify delivers temporary passwords to account holders.
package notify

import (
	"context"
	"log/slog"
	"time"

	"food-share-api/models"
)

// RecoveryRoutingKey is the topic temporary passwords are published under.
const RecoveryRoutingKey = "sms.password_recovery"

// RecoveryMessage is the payload handed to the SMS gateway.
type RecoveryMessage struct {
	UserID       uint      `json:"user_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	TempPassword string    `json:"temp_password"`
	IssuedAt     time.Time `json:"issued_at"`
}

func newRecoveryMessage(user models.User, temp string) RecoveryMessage {
	return RecoveryMessage{
		UserID:       user.ID,
		Name:         user.Name,
		Phone:        user.Phone,
		TempPassword: temp,
		IssuedAt:     time.Now().UTC(),
	}
}

// LogCourier writes temporary passwords to the log. Development only.
type LogCourier struct {
	logger *slog.Logger
}

func NewLogCourier(logger *slog.Logger) *LogCourier {
	return &LogCourier{logger: logger}
}

func (c *LogCourier) DeliverTemporaryPassword(ctx context.Context, user models.User, temp string) error {
	c.logger.InfoContext(ctx, "temporary password (development delivery)",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("phone", user.Phone),
		slog.String("temp_password", temp),
	)
	return nil
}
