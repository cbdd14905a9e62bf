package authdomain

import (
	"time"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// Claims is the verified identity carried by a bearer token. The subject is
// the opaque player id issued by the identity provider.
type Claims struct {
	PlayerID  leaguetypes.PlayerID
	Name      string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// Player converts the claims to the player record the league service keeps.
func (c *Claims) Player() leaguetypes.Player {
	name := c.Name
	if name == "" {
		name = string(c.PlayerID)
	}
	return leaguetypes.Player{ID: c.PlayerID, Name: name, IsUser: true}
}
