package server

import (
	"net/http"
	"sync"

	"among-legends/internal/config"

	"gorm.io/gorm"
)

type Server struct {
	store    *Store
	db       *gorm.DB
	ws       *wsHub
	cfg      config.Config
	timersMu sync.Mutex
	timers   map[string]*timerSet
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	return &Server{
		store:  NewStore(),
		db:     conn,
		ws:     newWSHub(),
		cfg:    cfg,
		timers: make(map[string]*timerSet),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleHome)
	mux.HandleFunc("GET /games/", s.handleGameView)
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("GET /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("POST /api/games/", s.handleGameSubroutes)
	mux.HandleFunc("GET /ws/games/", s.handleWebsocket)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}
