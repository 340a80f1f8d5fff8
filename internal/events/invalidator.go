package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/CampiteliRafael/cartEcommerce/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const (
	DefaultInvalidatorGroup = "cart-cache-invalidator"

	deleteAttempts = 3
	retryBackoff   = 100 * time.Millisecond
	fetchBackoff   = time.Second
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type cacheDeleter interface {
	Delete(ctx context.Context, userID string) error
}

// CacheInvalidator consumes cart events and drops the owner's cached cart, so
// instances that missed the write path's cache refresh read MongoDB next.
type CacheInvalidator struct {
	reader messageReader
	cache  cacheDeleter
	log    *logger.Logger

	attempts     int
	retryBackoff time.Duration
	fetchBackoff time.Duration
}

func NewCacheInvalidator(cache cacheDeleter, log *logger.Logger, topic, groupID string, brokers ...string) *CacheInvalidator {
	if topic == "" {
		topic = DefaultTopic
	}
	if groupID == "" {
		groupID = DefaultInvalidatorGroup
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return newCacheInvalidator(reader, cache, log)
}

func newCacheInvalidator(reader messageReader, cache cacheDeleter, log *logger.Logger) *CacheInvalidator {
	if log == nil {
		log = logger.NewNop()
	}
	return &CacheInvalidator{
		reader:       reader,
		cache:        cache,
		log:          log,
		attempts:     deleteAttempts,
		retryBackoff: retryBackoff,
		fetchBackoff: fetchBackoff,
	}
}

// Run consumes until ctx is done or the reader is closed.
func (c *CacheInvalidator) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := c.handleNext(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			if !errors.Is(err, context.Canceled) {
				c.log.WithError(err).Warn("error reading cart event")
			}
			sleep(ctx, c.fetchBackoff)
		}
	}
}

func (c *CacheInvalidator) Close() error {
	return c.reader.Close()
}

// handleNext processes one message. Only fetch errors are returned.
func (c *CacheInvalidator) handleNext(ctx context.Context) error {
	m, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return err
	}

	var event CartEvent
	if err := json.Unmarshal(m.Value, &event); err != nil || event.UserID == "" {
		// poison message, skip it
		c.log.WithField("offset", m.Offset).Warn("invalid cart event payload")
		c.commit(ctx, m)
		return nil
	}

	if err := c.deleteWithRetry(ctx, event.UserID); err != nil {
		if ctx.Err() != nil {
			// shutting down, the event is redelivered to the next consumer
			return nil
		}
		// the entry stays until its TTL; newer carts still replace it
		c.log.WithError(err).WithField("user_id", event.UserID).Error("failed to invalidate cached cart, skipping event")
	}
	c.commit(ctx, m)
	return nil
}

func (c *CacheInvalidator) deleteWithRetry(ctx context.Context, userID string) error {
	backoff := c.retryBackoff
	var err error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err = c.cache.Delete(ctx, userID); err == nil {
			return nil
		}
		if attempt == c.attempts || !sleep(ctx, backoff) {
			break
		}
		backoff *= 2
	}
	return err
}

func (c *CacheInvalidator) commit(ctx context.Context, m kafka.Message) {
	if err := c.reader.CommitMessages(ctx, m); err != nil {
		c.log.WithError(err).Warn("failed to commit cart event")
	}
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
