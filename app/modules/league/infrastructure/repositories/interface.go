package leaguedb

import (
	"context"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/uptrace/bun"
)

// Repository defines the contract for league persistence.
type Repository interface {
	// ListLeagues returns every stored league in position order.
	ListLeagues(ctx context.Context, db bun.IDB) ([]leaguetypes.League, error)

	// ReplaceLeagues makes the stored set equal to leagues.
	ReplaceLeagues(ctx context.Context, db bun.IDB, leagues []leaguetypes.League) error

	Load(ctx context.Context) ([]leaguetypes.League, error)
	Save(ctx context.Context, leagues []leaguetypes.League) error
}

var _ Repository = (*Impl)(nil)
