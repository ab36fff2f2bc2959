package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/tempestat/climdex/internal/config"
	"github.com/tempestat/climdex/internal/domain"
)

// Writer produces index reports to the sink topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes multiple index reports to the sink
// topic in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, reports []domain.IndexReport) error {
	if len(reports) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(reports))
	for i := range reports {
		msg, err := serializeToMessage(reports[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an IndexReport into a Kafka message keyed by
// station so all reports for a station land on the same partition.
func serializeToMessage(report domain.IndexReport) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize index report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.StationID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "variable", Value: []byte(report.Variable)},
			{Key: "period", Value: []byte(report.Period)},
			{Key: "computed_at", Value: []byte(report.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
