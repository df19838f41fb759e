package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ross-moug/mongomart/internal/domain"
	"github.com/ross-moug/mongomart/internal/repository"
	"github.com/rs/zerolog"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestDB(t *testing.T) (repository.CartRepository, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := repository.Connect(ctx, uri, "testdb")
	require.NoError(t, err)

	repo := repository.NewMongoCartRepository(db)
	require.NoError(t, repo.CreateIndexes(ctx))

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func setupKafka(t *testing.T) (string, func()) {
	ctx := context.Background()

	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers, "broker address should not be empty")

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	}

	return brokers[0], cleanup
}

func createTopic(t *testing.T, brokerAddr, topic string) {
	conn, err := kafkaGo.Dial("tcp", brokerAddr)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkaGo.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer controllerConn.Close()

	topicConfigs := []kafkaGo.TopicConfig{{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}}

	if err := controllerConn.CreateTopics(topicConfigs...); err != nil {
		t.Logf("topic creation error (may already exist): %v", err)
	}
}

func TestPoller_ClearsCartOnCheckout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, cleanupDB := setupTestDB(t)
	defer cleanupDB()
	broker, cleanupKafka := setupKafka(t)
	defer cleanupKafka()

	topic := "checkout-events"
	createTopic(t, broker, topic)

	line := domain.CartLine{
		Item:     domain.Item{ID: 5, Title: "Compact Umbrella", Reviews: []domain.Review{}},
		Quantity: 1,
	}
	_, err := repo.AddItem(ctx, "u1", line)
	require.NoError(t, err)

	cart, err := repo.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	w := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafkaGo.LeastBytes{},
		AllowAutoTopicCreation: true,
	}

	payload, err := json.Marshal(map[string]interface{}{
		"checkout_id": "ch-1",
		"user_id":     "u1",
	})
	require.NoError(t, err)

	err = w.WriteMessages(ctx, kafkaGo.Message{Key: []byte("ch-1"), Value: payload})
	require.NoError(t, err)
	w.Close()

	p := New(repo, zerolog.Nop(), topic, "mongomart-test-consumer", broker)
	defer p.Close()
	go p.Run(ctx)

	require.Eventually(t, func() bool {
		cart, errGet := repo.GetCart(ctx, "u1")
		return errGet == nil && len(cart.Items) == 0
	}, 15*time.Second, 500*time.Millisecond)
}
