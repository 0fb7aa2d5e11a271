package routes

import (
	"net/http"

	"warbots/pkg/dispatcher"
)

// route registers `handler` on `path` for `method`, wrapping it with
// the dispatcher's panic-recovery net so a single bad request never
// takes the whole server down.
func (s *Server) route(method, path string, handler func(http.ResponseWriter, *http.Request)) {
	s.router.HandleFunc(path, dispatcher.WithSafetyNet(s.log, handler)).Methods(method)
}

// routes registers every endpoint from §6's RPC surface table.
//
// The router's matching rule considers a route satisfied once every
// one of ITS OWN tokens matches a prefix of the request path, not
// once the whole path is consumed (see `Route.matchName`); a shorter
// route registered ahead of a longer one with the same prefix would
// therefore shadow it. Routes are registered longest-path-first
// within each method to keep that from happening.
func (s *Server) routes() {
	s.route(http.MethodGet, "/games/[0-9a-zA-Z-]+/colors", s.availableColors)
	s.route(http.MethodGet, "/games/[0-9a-zA-Z-]+/state", s.gameState)
	s.route(http.MethodGet, "/games/[0-9a-zA-Z-]+/events", s.eventStream)
	s.route(http.MethodGet, "/games/mine", s.listMyGames)
	s.route(http.MethodGet, "/games", s.listOpenGames)

	s.route(http.MethodPost, "/games/[0-9a-zA-Z-]+/join", s.joinGame)
	s.route(http.MethodPost, "/games/[0-9a-zA-Z-]+/start", s.startGame)
	s.route(http.MethodPost, "/games/[0-9a-zA-Z-]+/turns", s.submitTurn)
	s.route(http.MethodPost, "/games", s.createGame)

	s.route(http.MethodPut, "/games/[0-9a-zA-Z-]+/orders", s.saveDraft)

	s.route(http.MethodDelete, "/games/[0-9a-zA-Z-]+", s.deleteGame)
}
