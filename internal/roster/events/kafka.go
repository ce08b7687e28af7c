package events

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"scoutnet/pkg/kafka"
	"scoutnet/pkg/logger"
)

const (
	schemaVersion = "1"
	eventSource   = "scoutnet"
)

// Publisher is the part of kafka.Producer the observer needs.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaObserver publishes each event as a JSON message keyed by list id, or
// by member number for roster events. Every message from one observer
// carries the same correlation id. Publish failures are logged and never
// interrupt retrieval.
type KafkaObserver struct {
	publisher Publisher
	runID     string
	log       *logger.Logger
}

func NewKafkaObserver(publisher Publisher, log *logger.Logger) *KafkaObserver {
	if log == nil {
		log = logger.Nop()
	}
	return &KafkaObserver{
		publisher: publisher,
		runID:     uuid.NewString(),
		log:       log.Component("events"),
	}
}

type payload struct {
	Event
	Error string `json:"error,omitempty"`
}

func (o *KafkaObserver) Observe(ctx context.Context, e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	p := payload{Event: e}
	if e.Err != nil {
		p.Error = e.Err.Error()
	}

	msg, err := kafka.NewMessage().
		WithKey(partitionKey(e)).
		WithEventID("").
		WithEventType(string(e.Type)).
		WithCorrelationID(o.runID).
		WithSchemaVersion(schemaVersion).
		WithSource(eventSource).
		WithTimestamp(e.Time).
		WithValue(p).
		Build()
	if err != nil {
		o.log.Error("Failed to encode event", "type", e.Type, "error", err)
		return
	}

	if err := o.publisher.Publish(ctx, msg); err != nil {
		o.log.Warn("Failed to publish event",
			"type", e.Type,
			"event_id", msg.GetEventID(),
			"correlation_id", msg.GetCorrelationID(),
			"transient", kafka.ClassifyError(err) == kafka.ErrorTypeTransient,
			"error", err,
		)
	}
}

func partitionKey(e Event) string {
	if e.ListID != 0 {
		return "list-" + strconv.Itoa(e.ListID)
	}
	if e.MemberNo != 0 {
		return "member-" + strconv.Itoa(e.MemberNo)
	}
	return string(e.Type)
}
