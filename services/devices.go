// services/devices.go
package services

import (
	"context"

	"equiptrack/models"
	"equiptrack/store"
)

// RegisterDeviceToken upserts a push token, keyed by the token string so a
// device changing owners follows its current user.
func (s *Service) RegisterDeviceToken(ctx context.Context, userID, token, platform string) error {
	if token == "" {
		return invalidState("token must not be empty")
	}
	tokens, err := store.ReadAll[models.DeviceToken](ctx, s.store, models.DeviceTokensCollection)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	for i := range tokens {
		if tokens[i].Token == token {
			tokens[i].UserID = userID
			tokens[i].Platform = platform
			tokens[i].UpdatedAt = now
			return s.store.WriteAll(ctx, models.DeviceTokensCollection, tokens)
		}
	}
	tokens = append(tokens, models.DeviceToken{
		UserID:    userID,
		Token:     token,
		Platform:  platform,
		UpdatedAt: now,
	})
	return s.store.WriteAll(ctx, models.DeviceTokensCollection, tokens)
}
