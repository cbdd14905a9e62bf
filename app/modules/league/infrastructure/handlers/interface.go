package leaguehandlers

import (
	"context"

	"github.com/Black-And-White-Club/bakeoff-league/app/eventbus"
	leagueevents "github.com/Black-And-White-Club/bakeoff-league/app/events/league"
)

// Handlers reacts to league events on the message router.
type Handlers interface {
	HandleDraftCompleted(ctx context.Context, payload *leagueevents.DraftCompletedPayloadV1) ([]eventbus.Result, error)
	HandleTradeCompleted(ctx context.Context, payload *leagueevents.TradeCompletedPayloadV1) ([]eventbus.Result, error)
	HandleDropAddCompleted(ctx context.Context, payload *leagueevents.DropAddCompletedPayloadV1) ([]eventbus.Result, error)
	HandleWeekSubmitted(ctx context.Context, payload *leagueevents.WeekSubmittedPayloadV1) ([]eventbus.Result, error)
}
