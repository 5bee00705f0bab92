package repository

import (
	"context"

	"SolPulse/internal/domain/models"
	"SolPulse/internal/domain/repository"
	pkgkafka "SolPulse/pkg/kafka"
)

// KafkaPredictionPublisher publishes finished predictions to Kafka so
// downstream consumers (alert delivery, archival) pick them up.
type KafkaPredictionPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPredictionPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPredictionPublisher{producer: producer, topic: topic}
}

func (p *KafkaPredictionPublisher) Publish(ctx context.Context, pred *models.Prediction) error {
	// Keyed by direction so a partitioned topic keeps per-direction order.
	return p.producer.Publish(ctx, p.topic, []byte(pred.Direction), pred)
}

func (p *KafkaPredictionPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
