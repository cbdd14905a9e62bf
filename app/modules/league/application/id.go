package leagueservice

import (
	"encoding/base32"
	"fmt"
	"strings"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/google/uuid"
)

const (
	inviteCodeLength   = 6
	inviteCodeAttempts = 16
)

var inviteEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewInviteCode returns a short lowercase code drawn from the random tail of a
// v4 UUID. Uniqueness is enforced by the caller against live leagues.
func NewInviteCode() leaguetypes.LeagueID {
	u := uuid.New()
	code := inviteEncoding.EncodeToString(u[10:])
	return leaguetypes.LeagueID(strings.ToLower(code[:inviteCodeLength]))
}

// allocateIDLocked draws invite codes until one is not taken. Callers hold mu.
func (s *LeagueService) allocateIDLocked() (leaguetypes.LeagueID, error) {
	for range inviteCodeAttempts {
		id := s.newID()
		if id == "" || id == leaguetypes.PreviewLeagueID {
			continue
		}
		if _, taken := s.leagues[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique invite code after %d attempts", inviteCodeAttempts)
}
