package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/Black-And-White-Club/bakeoff-league/app/database"
	leaguemigrations "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/bakeoff-league/config"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	cliApp := &cli.App{
		Name:  "bun",
		Usage: "manage the league database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			newDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// moduleMigrators opens the configured database and returns one migrator per
// module that owns tables.
func moduleMigrators(c *cli.Context) (map[string]*migrate.Migrator, func() error, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Open(c.Context, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}

	return map[string]*migrate.Migrator{
		"league": migrate.NewMigrator(db, leaguemigrations.Migrations),
	}, db.Close, nil
}

// eachModule runs fn for every module in name order.
func eachModule(c *cli.Context, fn func(ctx context.Context, module string, m *migrate.Migrator) error) error {
	migrators, closeDB, err := moduleMigrators(c)
	if err != nil {
		return err
	}
	defer closeDB()

	names := make([]string, 0, len(migrators))
	for name := range migrators {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := fn(c.Context, name, migrators[name]); err != nil {
			return fmt.Errorf("module %s: %w", name, err)
		}
	}
	return nil
}

func newDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return eachModule(c, func(ctx context.Context, module string, m *migrate.Migrator) error {
						fmt.Printf("%s: creating migration tables\n", module)
						return m.Init(ctx)
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					return eachModule(c, func(ctx context.Context, module string, m *migrate.Migrator) error {
						if err := m.Lock(ctx); err != nil {
							return err
						}
						defer m.Unlock(ctx) //nolint:errcheck

						group, err := m.Migrate(ctx)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("%s: up to date\n", module)
							return nil
						}
						fmt.Printf("%s: migrated to %s\n", module, group)
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group",
				Action: func(c *cli.Context) error {
					return eachModule(c, func(ctx context.Context, module string, m *migrate.Migrator) error {
						if err := m.Lock(ctx); err != nil {
							return err
						}
						defer m.Unlock(ctx) //nolint:errcheck

						group, err := m.Rollback(ctx)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("%s: nothing to roll back\n", module)
							return nil
						}
						fmt.Printf("%s: rolled back %s\n", module, group)
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migration status",
				Action: func(c *cli.Context) error {
					return eachModule(c, func(ctx context.Context, module string, m *migrate.Migrator) error {
						ms, err := m.MigrationsWithStatus(ctx)
						if err != nil {
							return err
						}
						fmt.Printf("%s:\n  applied:   %s\n  unapplied: %s\n", module, ms.Applied(), ms.Unapplied())
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create a Go migration for a module",
				ArgsUsage: "<module> <name words...>",
				Action: func(c *cli.Context) error {
					module := c.Args().First()
					name := strings.Join(c.Args().Tail(), "_")
					if module == "" || name == "" {
						return fmt.Errorf("usage: create_go <module> <name>")
					}
					migrators, closeDB, err := moduleMigrators(c)
					if err != nil {
						return err
					}
					defer closeDB()

					m, ok := migrators[module]
					if !ok {
						return fmt.Errorf("invalid module name: %s", module)
					}
					mf, err := m.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("%s: created %s (%s)\n", module, mf.Name, mf.Path)
					return nil
				},
			},
		},
	}
}
