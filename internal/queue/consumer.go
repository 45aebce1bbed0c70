package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/MollahHamza/TRASHCANPRO/internal/config"
	"github.com/MollahHamza/TRASHCANPRO/internal/logger"
)

// ReportLogFile is the file inside QueueConfig.LogDir receiving one line
// per consumed event.
const ReportLogFile = "reports.log"

// StartReportConsumer connects to RabbitMQ, declares the report queue
// (durable) and appends every message to <LogDir>/reports.log in a single
// human-friendly line. It reconnects with backoff until ctx is cancelled.
// Malformed messages are rejected without requeue so the loop keeps going.
func StartReportConsumer(ctx context.Context, cfg config.QueueConfig) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			logger.Warningf("report-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, cfg)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warningf("report-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg config.QueueConfig) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warningf("report-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	logger.Infof("report-consumer: consuming %s", cfg.Queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(cfg.LogDir, d.Body); err != nil {
				logger.Errorf("report-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false) // reject, do not requeue
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes body and appends its log line to logDir.
func HandleMessage(logDir string, body []byte) error {
	var ev ReportSubmittedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.EventID == "" {
		return errors.New("event without event_id")
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", logDir, err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, ReportLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders ev as a newline-terminated log line.
func FormatLine(ev ReportSubmittedEvent) string {
	return fmt.Sprintf("[%s] Report submitted | event_id=%s | report_id=%d | user=%q | type=%q | location=%.6f,%.6f | points=%d\n",
		ev.SubmittedAt, ev.EventID, ev.ReportID, ev.User, ev.Type, ev.Latitude, ev.Longitude, ev.PointsAwarded)
}
