package eventbus

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

// NATSConfig configures the external fan-out.
type NATSConfig struct {
	URL      string
	NKeySeed string
	Name     string
}

// NewNATSPublisher returns a core-NATS publisher (JetStream disabled). When
// NKeySeed is set the connection authenticates with that user nkey.
func NewNATSPublisher(cfg NATSConfig, logger *slog.Logger) (message.Publisher, error) {
	opts, err := natsOptions(cfg)
	if err != nil {
		return nil, err
	}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:               cfg.URL,
			NatsOptions:       opts,
			Marshaler:         &wmnats.NATSMarshaler{},
			SubjectCalculator: wmnats.DefaultSubjectCalculator,
			JetStream:         wmnats.JetStreamConfig{Disabled: true},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}
	return publisher, nil
}

func natsOptions(cfg NATSConfig) ([]nats.Option, error) {
	name := cfg.Name
	if name == "" {
		name = "bakeoff-league"
	}
	opts := []nats.Option{
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(time.Second),
	}
	if cfg.NKeySeed == "" {
		return opts, nil
	}

	auth, err := nkeyOption(cfg.NKeySeed)
	if err != nil {
		return nil, err
	}
	return append(opts, auth), nil
}

// nkeyOption signs server nonces with the user key derived from seed.
func nkeyOption(seed string) (nats.Option, error) {
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to parse nkey seed: %w", err)
	}
	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive nkey public key: %w", err)
	}
	if !nkeys.IsValidPublicUserKey(pub) {
		return nil, fmt.Errorf("nkey seed is not a user key")
	}
	return nats.Nkey(pub, func(nonce []byte) ([]byte, error) {
		return kp.Sign(nonce)
	}), nil
}
