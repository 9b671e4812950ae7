package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Header keys on request and reply records.
const (
	HeaderPattern       = "pattern"
	HeaderCorrelationID = "correlation-id"
	HeaderReplyTo       = "reply-to"
)

// Consumer runs the Kafka request/reply loop: poll a request, dispatch it,
// produce the reply, then commit. Replies go to the record's reply-to header
// when present, else to the configured reply topic.
type Consumer struct {
	client     *kgo.Client
	dispatcher *Dispatcher
	replyTopic string
	logger     *slog.Logger
}

func New(client *kgo.Client, dispatcher *Dispatcher, replyTopic string, logger *slog.Logger) *Consumer {
	return &Consumer{
		client:     client,
		dispatcher: dispatcher,
		replyTopic: replyTopic,
		logger:     logger,
	}
}

// Run polls until the context is canceled or the client is closed. Offsets
// are committed only after the reply for a batch has been produced, giving
// at-least-once reply delivery.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "fetch error",
				"topic", topic,
				"partition", partition,
				"error", err.Error(),
			)
		})

		var replies []*kgo.Record
		fetches.EachRecord(func(rec *kgo.Record) {
			replies = append(replies, c.handle(ctx, rec))
		})

		if len(replies) > 0 {
			if err := c.client.ProduceSync(ctx, replies...).FirstErr(); err != nil {
				c.logger.ErrorContext(ctx, "failed to produce replies", "error", err.Error())
				continue // retry after redelivery rather than losing replies
			}
		}
		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			c.logger.ErrorContext(ctx, "failed to commit offsets", "error", err.Error())
		}
	}
}

func (c *Consumer) handle(ctx context.Context, rec *kgo.Record) *kgo.Record {
	req := Request{Payload: rec.Value}
	for _, h := range rec.Headers {
		switch h.Key {
		case HeaderPattern:
			req.Pattern = string(h.Value)
		case HeaderCorrelationID:
			req.CorrelationID = string(h.Value)
		case HeaderReplyTo:
			req.ReplyTo = string(h.Value)
		}
	}

	reply := c.dispatcher.Dispatch(ctx, req)
	value, err := json.Marshal(reply)
	if err != nil {
		// Reply is built from marshalable types; treat this as a bug.
		c.logger.ErrorContext(ctx, "failed to encode reply envelope", "error", err.Error())
		value = []byte(`{"status":"error","error":"internal_error"}`)
	}

	topic := req.ReplyTo
	if topic == "" {
		topic = c.replyTopic
	}
	return &kgo.Record{
		Topic: topic,
		Key:   rec.Key,
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: HeaderCorrelationID, Value: []byte(req.CorrelationID)},
		},
	}
}
