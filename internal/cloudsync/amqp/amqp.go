// Package amqp keeps the latest ledger snapshot as the single message of
// a durable RabbitMQ queue.
package amqp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/likexephinh-dev/ThuChiPro/internal/backup"
	"github.com/likexephinh-dev/ThuChiPro/internal/cloudsync"
)

var _ cloudsync.Remote = (*Remote)(nil)

type Remote struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

func Dial(url, exchange, queue string) (*Remote, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	r := &Remote{conn: conn, channel: channel, exchange: exchange, queue: queue}

	if err := r.setup(); err != nil {
		r.Close()
		return nil, fmt.Errorf("declaring topology: %w", err)
	}

	return r, nil
}

// setup declares a direct exchange and a queue that only ever holds the
// newest snapshot.
func (r *Remote) setup() error {
	if err := r.channel.ExchangeDeclare(r.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring exchange: %w", err)
	}

	args := amqp091.Table{
		"x-max-length": int32(1),
		"x-overflow":   "drop-head",
	}

	if _, err := r.channel.QueueDeclare(r.queue, true, false, false, false, args); err != nil {
		return fmt.Errorf("declaring queue: %w", err)
	}

	if err := r.channel.QueueBind(r.queue, r.queue, r.exchange, false, nil); err != nil {
		return fmt.Errorf("binding queue: %w", err)
	}

	return nil
}

func (r *Remote) Push(ctx context.Context, doc backup.Document) error {
	var buf bytes.Buffer
	if err := backup.Encode(&buf, doc); err != nil {
		return err
	}

	body := buf.Bytes()

	err := r.channel.PublishWithContext(ctx, r.exchange, r.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publishing snapshot: %w", err)
	}

	slog.InfoContext(ctx, "published ledger snapshot", "queue", r.queue, "bytes", len(body))

	return nil
}

// Pull reads the snapshot and requeues it so later pulls still see it.
// A snapshot that fails to decode is dropped from the queue.
func (r *Remote) Pull(ctx context.Context) (backup.Document, error) {
	delivery, ok, err := r.channel.Get(r.queue, false)
	if err != nil {
		return backup.Document{}, fmt.Errorf("getting snapshot: %w", err)
	}

	if !ok {
		return backup.Document{}, cloudsync.ErrNoSnapshot
	}

	doc, decodeErr := backup.Deserialize(delivery.Body)

	if err := delivery.Nack(false, decodeErr == nil); err != nil {
		slog.WarnContext(ctx, "failed to requeue snapshot", "queue", r.queue, "error", err)
	}

	if decodeErr != nil {
		return backup.Document{}, decodeErr
	}

	return doc, nil
}

func (r *Remote) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}

	if r.conn != nil {
		return r.conn.Close()
	}

	return nil
}
