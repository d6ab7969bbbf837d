package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/autocomment/internal/domain/model"
	"github.com/ericfisherdev/autocomment/internal/domain/port/driven"
)

// ResolveBotIdentity fills in policy.BotUsername from the token owner when the
// self-comment guard is on and no username was configured. Without a known
// identity the guard cannot be honored, so resolution failure is an error.
func ResolveBotIdentity(ctx context.Context, resolver driven.IdentityResolver, policy model.Policy) (model.Policy, error) {
	if !policy.SkipSelf || policy.BotUsername != "" {
		return policy, nil
	}

	login, err := resolver.AuthenticatedLogin(ctx)
	if err != nil {
		return policy, fmt.Errorf("bot identity unknown and could not be resolved: %w", err)
	}

	slog.Info("resolved bot identity", "login", login)
	policy.BotUsername = login
	return policy, nil
}
