package usecase

import (
	"context"
	"time"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/duel"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/domain/outcome"
)

// TableQuery selects finished tables between two players inside a window.
type TableQuery struct {
	P1ID int64
	P2ID int64
	From time.Time
	To   time.Time
}

// GameHistoryProvider is the game history source duels are checked against.
// Implementations mark failures with ErrProviderAuth, ErrProviderData or
// ErrProviderTimeout.
type GameHistoryProvider interface {
	FetchTables(ctx context.Context, query TableQuery) ([]outcome.Table, error)
	FetchTableStats(ctx context.Context, tableID string) (duel.Stats, error)
}
