package usecase

import (
	"context"
	"encoding/json"
	"time"

	"SolPulse/internal/domain/models"
	domrepo "SolPulse/internal/domain/repository"
	pkgkafka "SolPulse/pkg/kafka"
)

// PredictionAlertsHandler consumes published predictions from Kafka and
// forwards them to the notification channel. Running it in a separate
// consumer group decouples delivery from the analysis run.
type PredictionAlertsHandler struct {
	topic    string
	notifier domrepo.Notifier
	metrics  domrepo.Metrics
}

func NewPredictionAlertsHandler(topic string, notifier domrepo.Notifier, metrics domrepo.Metrics) *PredictionAlertsHandler {
	return &PredictionAlertsHandler{topic: topic, notifier: notifier, metrics: metrics}
}

func (h *PredictionAlertsHandler) Topic() string { return h.topic }

func (h *PredictionAlertsHandler) Handle(ctx context.Context, b []byte) error {
	var p models.Prediction
	if err := json.Unmarshal(b, &p); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	// E2E latency from prediction time to delivery (approx)
	h.metrics.RecordLatency("alert_e2e_seconds", time.Since(p.Timestamp).Seconds())

	start := time.Now()
	if err := h.notifier.Notify(ctx, &p); err != nil {
		h.metrics.RecordError("consumer_notify")
		return err
	}
	h.metrics.RecordLatency("alert_send_seconds", time.Since(start).Seconds())
	return nil
}

var _ pkgkafka.MessageHandler = (*PredictionAlertsHandler)(nil)
