// Package poller consumes checkout events and clears the corresponding
// user's cart. Cart deletion is driven from here, not from the accessors.
package poller

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ross-moug/mongomart/internal/repository"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type Poller struct {
	repo   repository.CartRepository
	reader *kafka.Reader
	log    zerolog.Logger
}

func New(repo repository.CartRepository, log zerolog.Logger, topic, groupID string, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{repo: repo, reader: reader, log: log}
}

type checkoutEvent struct {
	UserID string `json:"user_id"`
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.consumeOne(ctx)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.log.Error().Err(err).Msg("failed to close kafka reader")
	}
}

func (p *Poller) consumeOne(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Error().Err(err).Msg("failed to read checkout event")
		}
		return
	}

	var event checkoutEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		p.log.Error().Err(err).Msg("malformed checkout event")
		return
	}
	if event.UserID == "" {
		p.log.Warn().Msg("checkout event missing user_id")
		return
	}

	// A user may check out with an already-cleared cart; that is not a fault.
	err = p.repo.ClearCart(ctx, event.UserID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		p.log.Error().Err(err).Str("user_id", event.UserID).Msg("failed to clear cart")
	}
}
