package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/levada-tours/service-booking/internal/domain/tour"
	"github.com/levada-tours/service-booking/internal/platform/kafka"
)

// paymentRecorder is the slice of the booking service the consumer needs.
type paymentRecorder interface {
	RecordPayment(ctx context.Context, bookingID string, method tour.PaymentStatus) error
}

// PaymentEventConsumer listens to payment events and records the payment
// method on the corresponding booking.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	service  paymentRecorder
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service paymentRecorder,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case PaymentRecorded:
		return c.handlePaymentRecorded(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentRecorded(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt PaymentRecordedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentRecordedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment recorded event",
		zap.String("booking_id", evt.BookingID),
		zap.String("method", evt.Method),
	)

	if err := c.service.RecordPayment(ctx, evt.BookingID, tour.PaymentStatus(evt.Method)); err != nil {
		c.logger.Error("failed to record payment on booking",
			zap.String("booking_id", evt.BookingID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
