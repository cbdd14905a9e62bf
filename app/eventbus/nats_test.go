package eventbus

import (
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
	"github.com/stretchr/testify/require"
)

func applyOptions(t *testing.T, opts []nats.Option) nats.Options {
	t.Helper()
	var o nats.Options
	for _, opt := range opts {
		require.NoError(t, opt(&o))
	}
	return o
}

func TestNATSOptions_WithoutSeed(t *testing.T) {
	opts, err := natsOptions(NATSConfig{URL: "nats://localhost:4222"})
	require.NoError(t, err)

	o := applyOptions(t, opts)
	require.Equal(t, "bakeoff-league", o.Name)
	require.Empty(t, o.Nkey)
}

func TestNATSOptions_UserSeed(t *testing.T) {
	kp, err := nkeys.CreateUser()
	require.NoError(t, err)
	seed, err := kp.Seed()
	require.NoError(t, err)
	pub, err := kp.PublicKey()
	require.NoError(t, err)

	opts, err := natsOptions(NATSConfig{NKeySeed: string(seed), Name: "league-test"})
	require.NoError(t, err)

	o := applyOptions(t, opts)
	require.Equal(t, "league-test", o.Name)
	require.Equal(t, pub, o.Nkey)

	nonce := []byte("server-nonce")
	sig, err := o.SignatureCB(nonce)
	require.NoError(t, err)
	require.NoError(t, kp.Verify(nonce, sig))
}

func TestNATSOptions_RejectsBadSeeds(t *testing.T) {
	_, err := natsOptions(NATSConfig{NKeySeed: "not-a-seed"})
	require.Error(t, err)

	account, err := nkeys.CreateAccount()
	require.NoError(t, err)
	seed, err := account.Seed()
	require.NoError(t, err)

	_, err = natsOptions(NATSConfig{NKeySeed: string(seed)})
	require.Error(t, err)
}
