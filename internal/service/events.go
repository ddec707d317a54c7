package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/metrics"
	"github.com/Skotchmaster/shop_admin/pkg/mykafka"
)

const publishTimeout = 5 * time.Second

// events publishes domain events. Failures are logged and counted, never
// returned: the write they describe has already been committed.
type events struct {
	pub     mykafka.Publisher
	metrics *metrics.Registry
}

func newEvents(pub mykafka.Publisher, m *metrics.Registry) events {
	if pub == nil {
		pub = mykafka.Nop{}
	}
	return events{pub: pub, metrics: m}
}

func (e events) publish(ctx context.Context, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := e.pub.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", topic, "key", key, "type", event["type"], "error", err)
		if e.metrics != nil {
			e.metrics.EventsPublishFailed.WithLabelValues(topic).Inc()
		}
	}
}
