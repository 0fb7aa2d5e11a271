package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"warbots/internal/data"
	"warbots/internal/routes"
	"warbots/internal/scheduler"
	"warbots/internal/turn"
	"warbots/pkg/arguments"
	"warbots/pkg/db"
	"warbots/pkg/logger"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/spf13/viper"
)

// options describes the flags warbotsd accepts on the command line.
type options struct {
	Config string `short:"c" long:"config" description:"Configuration file to customize app behavior (development/production)"`
}

var longDescription = `Starts the warbots authoritative server: a single process owning every
game's turn clock, validating and resolving orders, and serving the RPC
surface external collaborators depend on.`

// newStore opens the persistence backend named by the `Store.Driver`
// configuration key (defaulting to an in-memory store, suitable for
// a single-process deployment and for local development), falling
// back to `internal/data`'s SQL-backed store for `sqlite` or
// `postgres`.
func newStore(log logger.Logger) data.Store {
	driver := viper.GetString("Store.Driver")

	switch driver {
	case "postgres":
		pool := db.NewPool(log)
		store := data.NewSQLStore(pool)
		if err := store.Migrate(); err != nil {
			panic(fmt.Errorf("cannot migrate postgres store (err: %v)", err))
		}
		return store

	case "sqlite":
		dsn := viper.GetString("Store.SqliteDSN")
		if dsn == "" {
			dsn = "warbots.db"
		}
		pool, err := db.NewSqlitePool(dsn, log)
		if err != nil {
			panic(fmt.Errorf("cannot open sqlite store (err: %v)", err))
		}
		store := data.NewSQLStore(pool)
		if err := store.Migrate(); err != nil {
			panic(fmt.Errorf("cannot migrate sqlite store (err: %v)", err))
		}
		return store

	default:
		return data.NewMemoryStore()
	}
}

// main starts the dispatcher's background deadline sweep and serves
// the RPC surface until a SIGINT is received.
func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "warbotsd"
	parser.LongDescription = longDescription

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	metadata := arguments.Parse(opts.Config)

	log := logger.NewStdLogger(metadata.InstanceID, metadata.PublicIPv4)

	defer func() {
		err := recover()
		if err != nil {
			stack := string(debug.Stack())
			log.Trace(logger.Fatal, "main", fmt.Sprintf("App crashed after error: %v (stack: %s)", err, stack))
		}
	}()

	newID := func() string { return uuid.New().String() }

	store := newStore(log)
	processor := turn.NewProcessor(store, newID, log)
	games := scheduler.New(store, processor, log, newID)

	server := routes.NewServer(metadata.Port, store, games, newID, log)

	if err := server.Serve(); err != nil {
		panic(fmt.Errorf("unexpected error while listening to port %d (err: %v)", metadata.Port, err))
	}
}
