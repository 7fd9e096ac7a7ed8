// Package notify implements the best-effort push notification fan-out.
// By contract a Notifier never raises: delivery failures are logged and
// swallowed so they can never fail the operation that triggered them.
package notify

import (
	"context"
	"fmt"

	"equiptrack/config"
	"equiptrack/store"

	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, recipientIDs []string, title, body string, data map[string]string)
}

// LogNotifier writes the would-be push to the log. Default sink; stands in
// for real delivery in development.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, recipientIDs []string, title, body string, data map[string]string) {
	n.logger.Info("push (log sink)",
		zap.Int("recipients", len(recipientIDs)),
		zap.String("title", title),
		zap.String("body", body),
		zap.Any("data", data))
}

// New creates a Notifier implementation based on the notify config type.
func New(cfg config.NotifyConfig, s store.Store, logger *zap.Logger) (Notifier, error) {
	switch cfg.Type {
	case "", "log":
		return NewLogNotifier(logger), nil
	case "kafka":
		if len(cfg.Brokers) == 0 || cfg.Topic == "" {
			return nil, fmt.Errorf("brokers and topic required for kafka notifier")
		}
		return NewKafkaNotifier(cfg.Brokers, cfg.Topic, s, logger), nil
	default:
		return nil, fmt.Errorf("unknown notifier type: %s", cfg.Type)
	}
}
