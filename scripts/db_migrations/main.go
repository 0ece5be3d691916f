package main

import (
	"database/sql"
	"errors"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	server_config "github.com/carson-networks/credit-ledger/internal/config"
	"github.com/carson-networks/credit-ledger/migrations"
)

func main() {
	app := &cli.App{
		Name:  "db_migrations",
		Usage: "manage the credit-ledger database schema",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "apply all pending migrations",
				Action: withMigrator(up),
			},
			{
				Name:  "down",
				Usage: "roll back the given number of migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
				},
				Action: withMigrator(down),
			},
			{
				Name:   "version",
				Usage:  "print the current schema version",
				Action: withMigrator(version),
			},
		},
		DefaultCommand: "up",
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("db_migrations")
	}
}

func withMigrator(action func(*cli.Context, *migrate.Migrate) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		env, err := server_config.ProcessEnvironmentVariables()
		if err != nil {
			return err
		}

		db, err := sql.Open(env.PostgresDriver, env.PostgresDSN())
		if err != nil {
			return err
		}
		defer db.Close()

		m, err := migrations.New(db)
		if err != nil {
			return err
		}
		return action(c, m)
	}
}

func currentVersion(m *migrate.Migrate) (uint, bool, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func up(_ *cli.Context, m *migrate.Migrate) error {
	preMigrationVersion, _, err := currentVersion(m)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	postMigrationVersion, _, err := currentVersion(m)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"preMigrationVersion":  preMigrationVersion,
		"postMigrationVersion": postMigrationVersion,
	}).Info("Migration status")
	return nil
}

func down(c *cli.Context, m *migrate.Migrate) error {
	err := m.Steps(-c.Int("steps"))
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return version(c, m)
}

func version(_ *cli.Context, m *migrate.Migrate) error {
	v, dirty, err := currentVersion(m)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"version": v,
		"dirty":   dirty,
	}).Info("Schema version")
	return nil
}
