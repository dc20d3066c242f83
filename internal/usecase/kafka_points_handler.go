package usecase

import (
	"context"
	"encoding/json"
	"time"

	"TimeWise/internal/domain/models"
	domrepo "TimeWise/internal/domain/repository"
	pkgkafka "TimeWise/pkg/kafka"
)

// KafkaPointsHandler consumes point messages from Kafka and writes to storage.
type KafkaPointsHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
}

func NewKafkaPointsHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics) *KafkaPointsHandler {
	return &KafkaPointsHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaPointsHandler) Topic() string { return h.topic }

// incoming message schema: {series, seq, v, t}
func (h *KafkaPointsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Series string  `json:"series"`
		Seq    int64   `json:"seq"`
		V      float64 `json:"v"`
		T      int64   `json:"t"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	// E2E latency from event time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &models.Point{
		Series:    m.Series,
		Seq:       m.Seq,
		Value:     m.V,
		Timestamp: m.T,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordPointStored("clickhouse", m.Series)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaPointsHandler)(nil)
