package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempestat/climdex/internal/domain"
)

func TestMapMessageToRawSeries(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("USW00094728"),
		Value:     []byte(`{"station_id":"USW00094728"}`),
		Topic:     "precip-observations",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("ghcn-daily")},
		},
	}

	r := &Reader{}
	raw := r.mapMessageToRawSeries(msg)

	assert.Equal(t, []byte("USW00094728"), raw.Key)
	assert.JSONEq(t, `{"station_id":"USW00094728"}`, string(raw.Value))
	assert.Equal(t, "precip-observations", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "ghcn-daily", raw.Headers["source"])
	assert.NotNil(t, raw.Commit)
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	v := 25.0
	report := domain.IndexReport{
		StationID: "USW00094728",
		Variable:  "PRCP",
		Unit:      "mm",
		Period:    "1M",
		Indices: map[string][]domain.IndexValue{
			"rx1day": {{Bucket: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), Value: &v}},
		},
		ComputedAt: now,
	}

	msg, err := serializeToMessage(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("USW00094728"), msg.Key)
	assert.Contains(t, string(msg.Value), `"rx1day"`)
	assert.Len(t, msg.Headers, 3)
	assert.Equal(t, "variable", msg.Headers[0].Key)
	assert.Equal(t, []byte("PRCP"), msg.Headers[0].Value)
	assert.Equal(t, "period", msg.Headers[1].Key)
	assert.Equal(t, []byte("1M"), msg.Headers[1].Value)
	assert.Equal(t, "computed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)

	var roundtrip domain.IndexReport
	require.NoError(t, json.Unmarshal(msg.Value, &roundtrip))

	type reportSummary struct {
		StationID string
		Period    string
		Rx1Day    float64
	}

	expected := reportSummary{StationID: report.StationID, Period: report.Period, Rx1Day: *report.Indices["rx1day"][0].Value}
	actual := reportSummary{StationID: roundtrip.StationID, Period: roundtrip.Period, Rx1Day: *roundtrip.Indices["rx1day"][0].Value}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}
