package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PUSH_BATCH_SIZE", "")
		t.Setenv("KAFKA_BROKERS", "")
		t.Setenv("OUTBOX_CLAIM_TIMEOUT", "")

		cfg := Load()

		assert.Equal(t, 100, cfg.Push.BatchSize)
		assert.Equal(t, 10*time.Second, cfg.Push.Timeout)
		assert.Equal(t, "lifecycle_events", cfg.Kafka.Topic)
		assert.Nil(t, cfg.Kafka.Brokers)
		assert.Equal(t, 2*time.Minute, cfg.Outbox.ClaimTimeout)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PUSH_BATCH_SIZE", "25")
		t.Setenv("PUSH_TIMEOUT", "3s")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_PORT", "6543")

		cfg := Load()

		assert.Equal(t, 25, cfg.Push.BatchSize)
		assert.Equal(t, 3*time.Second, cfg.Push.Timeout)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
		assert.Contains(t, cfg.DB.DSN(), "host=db port=6543")
	})

	t.Run("malformed values fall back", func(t *testing.T) {
		t.Setenv("OUTBOX_BATCH_SIZE", "many")
		t.Setenv("OUTBOX_POLL_INTERVAL", "soon")

		cfg := Load()

		assert.Equal(t, 50, cfg.Outbox.BatchSize)
		assert.Equal(t, 2*time.Second, cfg.Outbox.PollInterval)
	})
}
