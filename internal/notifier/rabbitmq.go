package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/edmbank/edmbank_backend/internal/core/domain"
	portssvc "github.com/edmbank/edmbank_backend/internal/core/ports/services"
)

// accountEventsExchange is the durable topic exchange account change events
// are published to. Routing key: "account.changed.{username}".
const accountEventsExchange = "account_events"

// AccountChangedEvent is the payload pushed to the broker when an account's
// persisted record changes. The password hash never leaves the service.
type AccountChangedEvent struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Balance   string    `json:"balance"`
	IBAN      string    `json:"iban"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher pushes account change events to RabbitMQ so out-of-process
// consumers (the desktop UI gateway) can refresh without polling.
type EventPublisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *slog.Logger
}

var _ portssvc.AccountPublisher = (*EventPublisher)(nil)

// NewEventPublisher connects to the broker and declares the events exchange.
// The dial is bounded so startup does not hang on an unreachable broker.
func NewEventPublisher(amqpURL string, logger *slog.Logger) (*EventPublisher, error) {
	conn, err := amqp091.DialConfig(amqpURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(accountEventsExchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &EventPublisher{conn: conn, channel: ch, logger: logger}, nil
}

// PublishAccountChange publishes the event; failures are logged, never
// propagated, because by this point the ledger mutation has already committed.
func (p *EventPublisher) PublishAccountChange(ctx context.Context, account domain.Account) {
	event := AccountChangedEvent{
		Username:  account.Username,
		Email:     account.Email,
		Balance:   account.Balance.String(),
		IBAN:      account.Card.IBAN,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal account change event", slog.String("username", account.Username), slog.String("error", err.Error()))
		return
	}

	err = p.channel.PublishWithContext(ctx,
		accountEventsExchange,
		"account.changed."+account.Username,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		p.logger.Warn("Failed to publish account change event", slog.String("username", account.Username), slog.String("error", err.Error()))
	}
}

// Close gracefully closes the channel and connection to RabbitMQ.
func (p *EventPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
