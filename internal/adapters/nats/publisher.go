package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geotriangle/internal/core/domain"
)

// Subjects and stream for perimeter events. Events are published on
// geo.perimeter.<source>, source being "ids" or "coordinates".
const (
	StreamPerimeters       = "GEO_PERIMETERS"
	SubjectPerimeterPrefix = "geo.perimeter."
	SubjectPerimeterAll    = SubjectPerimeterPrefix + ">"
)

// PerimeterSubject returns the subject for events of the given source.
func PerimeterSubject(source string) string {
	return SubjectPerimeterPrefix + source
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the
// perimeter stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      StreamPerimeters,
		Subjects:  []string{SubjectPerimeterAll},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishPerimeterComputed publishes a calculation event.
func (p *Publisher) PublishPerimeterComputed(ctx context.Context, event *domain.PerimeterComputed) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(PerimeterSubject(event.Source), data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection, e.g. for the WebSocket relay.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

func connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("geotriangle"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
