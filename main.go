package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/bakeoff-league/app"
	authdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/bakeoff-league/app/modules/auth/infrastructure/jwt"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/Black-And-White-Club/bakeoff-league/config"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	cliApp := &cli.App{
		Name:  "bakeoff-league",
		Usage: "fantasy league server for the baking competition",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			tokenCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API, MCP endpoint and event router",
		Action: func(c *cli.Context) error {
			ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			application, err := app.NewApp(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			runErr := application.Run(ctx)
			cancel()
			if err := application.Close(); err != nil {
				log.Printf("Error during shutdown: %v", err)
			}
			return runErr
		},
	}
}

// tokenCommand mints a bearer token for local development, standing in for
// the external identity provider.
func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:      "token",
		Usage:     "print a signed player token for local development",
		ArgsUsage: "<player-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "display name carried in the token"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime (defaults to jwt.default_ttl)"},
		},
		Action: func(c *cli.Context) error {
			playerID := c.Args().First()
			if playerID == "" {
				return fmt.Errorf("usage: token <player-id>")
			}

			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("jwt.secret is not configured")
			}

			ttl := c.Duration("ttl")
			if ttl <= 0 {
				ttl = cfg.JWT.DefaultTTL
			}

			provider := authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer)
			token, err := provider.GenerateToken(&authdomain.Claims{
				PlayerID: leaguetypes.PlayerID(playerID),
				Name:     c.String("name"),
			}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
