package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/pilfergame/pilfer-backend/internal/database"
	"github.com/pilfergame/pilfer-backend/internal/game"
)

type Server struct {
	port int

	db    database.Service
	hub   *game.Hub
	conns *game.ConnTable
}

func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 9000
	}

	conns := game.NewConnTable()
	hub := game.NewHub(game.DefaultRules(), conns)

	NewServer := &Server{
		port:  port,
		hub:   hub,
		conns: conns,
	}

	// The database is optional; without DB_DATABASE set the server runs
	// in-memory only and finished matches are not archived.
	if os.Getenv("DB_DATABASE") != "" {
		NewServer.db = database.New()
		hub.WithStore(NewServer.db)
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
