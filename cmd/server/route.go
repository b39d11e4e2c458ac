package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/matryer/way"
)

const URI_WS = "/play"
const URI_MAZE = "/maze/:difficulty"

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", URI_WS, s.GameServer.HandleHttpCall())
	s.router.HandleFunc("GET", URI_MAZE, s.GameServer.HandleMaze())
}

// handler puts the CORS layer in front of the router.
func (s *Server) handler(origins string) http.Handler {
	allowed := []string{"*"}
	if origins != "" {
		allowed = strings.Split(origins, ",")
		for i := range allowed {
			allowed[i] = strings.TrimSpace(allowed[i])
		}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})(s.router)
}
