package leagueservice

import (
	"errors"

	draftdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/draft/domain"
	rosterdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/roster/domain"
	weeklylogdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/weeklylog/domain"
)

var (
	ErrLeagueNotFound     = errors.New("league not found")
	ErrAlreadyMember      = errors.New("player is already a member of this league")
	ErrLeagueNameRequired = errors.New("league name is required")
	ErrPlayerRequired     = errors.New("player id is required")
)

var rejectionReasons = []struct {
	err    error
	reason string
}{
	{ErrLeagueNotFound, "league_not_found"},
	{ErrAlreadyMember, "already_member"},
	{ErrLeagueNameRequired, "name_required"},
	{ErrPlayerRequired, "player_required"},
	{draftdomain.ErrDraftComplete, "draft_complete"},
	{draftdomain.ErrNotYourTurn, "not_your_turn"},
	{draftdomain.ErrBakerUnavailable, "baker_unavailable"},
	{draftdomain.ErrTeamNotFound, "team_not_found"},
	{rosterdomain.ErrTeamNotFound, "team_not_found"},
	{rosterdomain.ErrBakerNotOwned, "baker_not_owned"},
	{rosterdomain.ErrBakerClaimed, "baker_claimed"},
	{rosterdomain.ErrSelfTrade, "self_trade"},
	{weeklylogdomain.ErrInvalidWeek, "invalid_week"},
	{weeklylogdomain.ErrUnknownEventType, "unknown_event_type"},
}

// RejectionReason maps a domain rejection to a short stable label used in
// metrics and API responses.
func RejectionReason(err error) string {
	for _, r := range rejectionReasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "other"
}
