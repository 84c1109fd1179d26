package usecase

import (
	"errors"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrProviderAuth means logging into the game history provider failed,
	// including when the request token could not be scraped.
	ErrProviderAuth = errors.New("provider authentication failed")
	// ErrProviderData means the provider answered with an unexpected shape.
	ErrProviderData = errors.New("unexpected provider data")
	// ErrProviderTimeout means a provider call did not answer in time.
	ErrProviderTimeout = errors.New("provider timeout")

	ErrPlayerNotFound = errors.New("player not found")
	ErrDuelNotFound   = errors.New("duel not found")
	ErrNoOutcome      = duel.ErrNoOutcome
)
