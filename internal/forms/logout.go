package forms

import (
	"context"

	"browsemate/cli/internal/errors"
	"browsemate/cli/internal/logging"

	"go.uber.org/zap"
)

// Logout signs out at the provider and then removes the session flag.
// Failures are logged, never shown; the session resolver follows the auth
// stream to the signed-out screens on its own.
func Logout(ctx context.Context, a Authenticator, flag SessionFlag, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("logout")

	if err := a.SignOut(ctx); err != nil {
		log.Warn("sign out", logging.MaskedError(errors.Wrap(errors.Persistence, "clear tokens", err)))
	}
	if err := flag.SetLoggedOut(); err != nil {
		log.Warn("remove session flag", logging.MaskedError(errors.Wrap(errors.Persistence, "remove flag", err)))
	}
}
