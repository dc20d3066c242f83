package repository

import (
	"context"

	"TimeWise/internal/domain/models"
	"TimeWise/internal/domain/repository"
	pkgkafka "TimeWise/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka: raw points go to the points
// topic, computed reports to the reports topic, both keyed by series so a
// series stays on one partition.
type KafkaPublisher struct {
	producer     *pkgkafka.Producer
	pointsTopic  string
	reportsTopic string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, pointsTopic, reportsTopic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, pointsTopic: pointsTopic, reportsTopic: reportsTopic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, pt *models.Point) error {
	return p.producer.Publish(ctx, p.pointsTopic, []byte(pt.Series), map[string]interface{}{
		"series": pt.Series,
		"seq":    pt.Seq,
		"v":      pt.Value,
		"t":      pt.Timestamp,
	})
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, points []*models.Point) error {
	if len(points) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(points))
	for i, pt := range points {
		msgs[i] = pkgkafka.Message{
			Key: []byte(pt.Series),
			Value: map[string]interface{}{
				"series": pt.Series,
				"seq":    pt.Seq,
				"v":      pt.Value,
				"t":      pt.Timestamp,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.pointsTopic, msgs)
}

func (p *KafkaPublisher) PublishReport(ctx context.Context, r *models.TrendReport) error {
	return p.producer.Publish(ctx, p.reportsTopic, []byte(r.Series), r)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
