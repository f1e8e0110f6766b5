// Command migrate inspects and changes the blog database schema.
//
//	migrate status          show the schema plan and pending SQL migrations
//	migrate up              apply pending SQL migrations (postgres only)
//	migrate auto            run GORM AutoMigrate for the blog models
//	migrate down VERSION    revert one SQL migration
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"blogapi/internal/config"
	"blogapi/internal/database"

	"gorm.io/gorm"
)

type command func(ctx context.Context, db *gorm.DB, cfg *config.Config, args []string) error

var commands = map[string]command{
	"status": status,
	"up":     up,
	"auto":   auto,
	"down":   down,
}

var errUsage = errors.New("usage: migrate <status|up|auto|down VERSION>")

func main() {
	flag.Parse()
	if err := run(flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[strings.ToLower(args[0])]
	if !ok {
		return errUsage
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cmd(ctx, db, cfg, args[1:])
}

func migrator(cfg *config.Config, db *gorm.DB) (*database.Migrator, error) {
	if cfg.DBDriver == database.DriverSQLite {
		return nil, errors.New("SQL migrations are PostgreSQL only; use 'migrate auto' with sqlite")
	}
	catalog, err := database.EmbeddedMigrations()
	if err != nil {
		return nil, err
	}
	return database.NewMigrator(db, catalog), nil
}

func status(ctx context.Context, db *gorm.DB, cfg *config.Config, _ []string) error {
	st, err := database.GetSchemaStatus(ctx, db, cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "env\t%s\n", st.Environment)
	fmt.Fprintf(w, "mode\t%s\n", st.Mode)
	fmt.Fprintf(w, "sql migrations\t%t\n", st.SQL)
	fmt.Fprintf(w, "auto-migrate\t%t\n", st.AutoMigrate)
	if st.SQL {
		fmt.Fprintf(w, "applied\t%d\n", len(st.Applied))
		for _, m := range st.Pending {
			fmt.Fprintf(w, "pending\t%s\n", m.ID())
		}
	}
	return w.Flush()
}

func up(ctx context.Context, db *gorm.DB, cfg *config.Config, _ []string) error {
	mg, err := migrator(cfg, db)
	if err != nil {
		return err
	}
	n, err := mg.Up(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("applied %d migration(s)\n", n)
	return nil
}

func auto(ctx context.Context, db *gorm.DB, cfg *config.Config, _ []string) error {
	forced := *cfg
	forced.DBSchemaMode = database.SchemaModeAuto
	if err := database.ApplySchema(ctx, db, &forced); err != nil {
		return err
	}
	fmt.Println("models auto-migrated")
	return nil
}

func down(ctx context.Context, db *gorm.DB, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	version, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad version %q", args[0])
	}
	mg, err := migrator(cfg, db)
	if err != nil {
		return err
	}
	if err := mg.Down(ctx, version); err != nil {
		return err
	}
	fmt.Printf("reverted migration %d\n", version)
	return nil
}
