// Package routes exposes the Turn Dispatcher and game store over
// HTTP, implementing the RPC surface external collaborators (the
// lobby, the rendering client) depend on. Session cookies, OAuth and
// static-file serving are out of scope; this package trusts an
// `X-Player-Id` header as the caller's identity, the simplest stand-in
// for the session layer that satisfies the Authorization checks §7
// requires without implementing a login flow.
package routes

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"warbots/internal/data"
	"warbots/internal/scheduler"
	"warbots/pkg/dispatcher"
	"warbots/pkg/logger"

	"github.com/gorilla/handlers"
	"github.com/spf13/viper"
)

// Server wires the Turn Dispatcher and the store to an HTTP router,
// and owns the process's graceful-shutdown sequence.
//
// The `port` is the TCP port to listen on.
//
// The `router` is built fresh on every call to Serve; a Server is not
// reusable across two Serve calls.
//
// The `store` gives route handlers read access to games, players,
// planets and the rest of the persisted state for list/state
// endpoints that don't need the Dispatcher's single-writer discipline.
//
// The `games` is the Turn Dispatcher: the start, submit, draft and
// delete endpoints route through it. Game creation and joining write
// to the store directly (join only asks the Dispatcher to publish a
// `player_joined` event).
//
// The `newID` mints identifiers for anything this package creates
// directly (games and players at creation/join time).
//
// The `log` is used for request-failure and lifecycle notices.
type Server struct {
	port   int
	router *dispatcher.Router

	store    data.Store
	games    *scheduler.Dispatcher
	newID    func() string
	visCache *data.VisibilityCache

	log logger.Logger
}

// ErrUnexpectedServeError indicates the listen goroutine panicked.
var ErrUnexpectedServeError = fmt.Errorf("unexpected error occurred while serving http requests")

// ErrServerShutdownError indicates the graceful shutdown sequence
// failed to complete within its deadline.
var ErrServerShutdownError = fmt.Errorf("unexpected error occurred while shutting down the server")

// configuration holds the server-level properties that are tunable
// through the environment rather than hardcoded, per §6.
type configuration struct {
	ShutdownTimeout time.Duration
}

// parseConfiguration reads the `Server.*` keys and falls back to
// sensible defaults for anything unset.
func parseConfiguration() configuration {
	config := configuration{
		ShutdownTimeout: 5 * time.Second,
	}

	if viper.IsSet("Server.ShutdownTimeout") {
		sec := viper.GetInt("Server.ShutdownTimeout")
		config.ShutdownTimeout = time.Duration(sec) * time.Second
	}

	return config
}

// NewServer returns a Server bound to `store` and `games`, listening
// on `port` once Serve is called.
func NewServer(port int, store data.Store, games *scheduler.Dispatcher, newID func() string, log logger.Logger) Server {
	return Server{
		port:     port,
		store:    store,
		games:    games,
		newID:    newID,
		visCache: data.NewVisibilityCache(),
		log:      log,
	}
}

// Serve starts listening and blocks until a SIGINT is received, at
// which point it shuts down gracefully.
func (s *Server) Serve() error {
	if s.router != nil {
		panic(fmt.Errorf("cannot start serving warbots server, process already running"))
	}

	s.router = dispatcher.NewRouter(s.log)
	s.routes()

	aMethods := handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	aOrigins := handlers.AllowedOrigins([]string{"*"})
	aHeaders := handlers.AllowedHeaders([]string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization", "X-Player-Id"})
	corsRouter := handlers.CORS(aHeaders, aOrigins, aMethods)(s.router)

	server := &http.Server{
		Addr:    ":" + strconv.FormatInt(int64(s.port), 10),
		Handler: corsRouter,
	}

	s.games.Run()

	var serveErr error
	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		defer func() {
			if err := recover(); err != nil {
				s.log.Trace(logger.Fatal, "server", fmt.Sprintf("Caught unexpected error while serving requests (err: %v)", err))

				serveErr = ErrUnexpectedServeError
			}

			wg.Done()

			s.log.Trace(logger.Notice, "server", "Server has stopped")
		}()

		s.log.Trace(logger.Notice, "server", "Server has started")

		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	<-stop

	config := parseConfiguration()
	s.shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		s.log.Trace(logger.Error, "server", fmt.Sprintf("Caught unexpected error while shutting down server (err: %v)", err))

		return ErrServerShutdownError
	}

	wg.Wait()

	return serveErr
}

// shutdown stops the background deadline sweep so no new turn
// advances are kicked off while the server winds down.
func (s *Server) shutdown() {
	s.games.Stop()
}
