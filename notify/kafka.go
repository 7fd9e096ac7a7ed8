// notify/kafka.go
package notify

import (
	"context"
	"encoding/json"
	"time"

	"equiptrack/models"
	"equiptrack/store"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// pushMessage is the payload handed to the out-of-process deliverer.
// Device tokens are resolved here so the consumer needs no store access.
type pushMessage struct {
	UserIDs []string          `json:"userIds"`
	Tokens  []string          `json:"tokens"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Data    map[string]string `json:"data,omitempty"`
	SentAt  time.Time         `json:"sentAt"`
}

// KafkaNotifier publishes push payloads to a topic. Delivery itself is a
// separate consumer's job; publish failures are logged, never surfaced.
type KafkaNotifier struct {
	writer *kafka.Writer
	store  store.Store
	logger *zap.Logger
}

func NewKafkaNotifier(brokers []string, topic string, s store.Store, logger *zap.Logger) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaNotifier{writer: w, store: s, logger: logger}
}

func (n *KafkaNotifier) Notify(ctx context.Context, recipientIDs []string, title, body string, data map[string]string) {
	tokens, err := n.resolveTokens(ctx, recipientIDs)
	if err != nil {
		n.logger.Warn("push: resolving device tokens failed", zap.Error(err))
	}
	if len(tokens) == 0 {
		n.logger.Info("push: no devices registered for recipients",
			zap.Int("recipients", len(recipientIDs)))
	}

	msg := pushMessage{
		UserIDs: recipientIDs,
		Tokens:  tokens,
		Title:   title,
		Body:    body,
		Data:    data,
		SentAt:  time.Now().UTC(),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		n.logger.Error("push: marshal failed", zap.Error(err))
		return
	}
	if err := n.writer.WriteMessages(ctx, kafka.Message{Value: b}); err != nil {
		n.logger.Error("push: publish failed", zap.Error(err))
		return
	}
	n.logger.Info("push published",
		zap.Int("recipients", len(recipientIDs)), zap.Int("tokens", len(tokens)))
}

func (n *KafkaNotifier) resolveTokens(ctx context.Context, userIDs []string) ([]string, error) {
	all, err := store.ReadAll[models.DeviceToken](ctx, n.store, models.DeviceTokensCollection)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	seen := make(map[string]bool)
	var tokens []string
	for _, t := range all {
		if wanted[t.UserID] && !seen[t.Token] {
			seen[t.Token] = true
			tokens = append(tokens, t.Token)
		}
	}
	return tokens, nil
}

func (n *KafkaNotifier) Close() error { return n.writer.Close() }
