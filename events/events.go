// Package events publishes listing changes to a message broker
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"go.senan.xyz/fyyur/multierr"
)

type Kind string

const (
	VenueCreated  Kind = "venue.created"
	VenueUpdated  Kind = "venue.updated"
	VenueDeleted  Kind = "venue.deleted"
	ArtistCreated Kind = "artist.created"
	ArtistUpdated Kind = "artist.updated"
	ArtistDeleted Kind = "artist.deleted"
	ShowCreated   Kind = "show.created"
)

// Event is the JSON body of a published message. the kind is also the
// routing key
type Event struct {
	Kind Kind      `json:"kind"`
	ID   int       `json:"id"`
	Name string    `json:"name,omitempty"`
	At   time.Time `json:"at"`
}

func New(kind Kind, id int, name string) Event {
	return Event{Kind: kind, ID: id, Name: name, At: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop drops every event. it's used when no broker is configured
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// channel is the part of *amqp.Channel the publisher needs
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type AMQP struct {
	mu       sync.Mutex
	conn     io.Closer
	ch       channel
	exchange string
}

// DialAMQP connects to the broker at url and declares exchange as a durable
// topic exchange
func DialAMQP(url, exchange string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	pub, err := newAMQP(conn, ch, exchange)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return pub, nil
}

func newAMQP(conn io.Closer, ch channel, exchange string) (*AMQP, error) {
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto delete
		false, // internal
		false, // no wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return &AMQP{conn: conn, ch: ch, exchange: exchange}, nil
}

func (a *AMQP) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.At,
		Body:         body,
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ch.PublishWithContext(ctx, a.exchange, string(event.Kind), false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Kind, err)
	}
	return nil
}

func (a *AMQP) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var errs multierr.Err
	if err := a.ch.Close(); err != nil {
		errs.Add(fmt.Errorf("close channel: %w", err))
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			errs.Add(fmt.Errorf("close connection: %w", err))
		}
	}
	return errs.OrNil()
}
