package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
)

// The hub tracks connections per game, and per player within a game, so
// role assignments and mission deliveries can be sent privately while
// phase changes go to the whole session.

type wsHub struct {
	mu      sync.Mutex
	games   map[string]map[*websocket.Conn]struct{}
	players map[string]map[int]map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		games:   make(map[string]map[*websocket.Conn]struct{}),
		players: make(map[string]map[int]map[*websocket.Conn]struct{}),
	}
}

func (h *wsHub) Add(gameID string, playerID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.games[gameID]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.games[gameID] = group
	}
	group[conn] = struct{}{}
	if playerID > 0 {
		byPlayer := h.players[gameID]
		if byPlayer == nil {
			byPlayer = make(map[int]map[*websocket.Conn]struct{})
			h.players[gameID] = byPlayer
		}
		conns := byPlayer[playerID]
		if conns == nil {
			conns = make(map[*websocket.Conn]struct{})
			byPlayer[playerID] = conns
		}
		conns[conn] = struct{}{}
	}
}

func (h *wsHub) Remove(gameID string, playerID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if group := h.games[gameID]; group != nil {
		delete(group, conn)
		if len(group) == 0 {
			delete(h.games, gameID)
		}
	}
	if byPlayer := h.players[gameID]; byPlayer != nil {
		if conns := byPlayer[playerID]; conns != nil {
			delete(conns, conn)
			if len(conns) == 0 {
				delete(byPlayer, playerID)
			}
		}
		if len(byPlayer) == 0 {
			delete(h.players, gameID)
		}
	}
	_ = conn.Close()
}

func (h *wsHub) Send(conn *websocket.Conn, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (h *wsHub) Broadcast(gameID string, payload any) {
	h.mu.Lock()
	group := h.games[gameID]
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(gameID, 0, conn)
		}
	}
}

// SendToPlayer delivers to every connection a player has open; content
// meant for one player never reaches the rest of the room.
func (h *wsHub) SendToPlayer(gameID string, playerID int, payload any) {
	h.mu.Lock()
	var conns []*websocket.Conn
	if byPlayer := h.players[gameID]; byPlayer != nil {
		for conn := range byPlayer[playerID] {
			conns = append(conns, conn)
		}
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(gameID, playerID, conn)
		}
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	gameID, ok := parseWebsocketPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	game, exists := s.store.GetGame(gameID)
	if !exists {
		http.NotFound(w, r)
		return
	}
	playerID, _ := strconv.Atoi(r.URL.Query().Get("player_id"))
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected game_id=%s player_id=%d remote=%s", gameID, playerID, r.RemoteAddr)
	s.ws.Add(gameID, playerID, conn)

	// Reconnects resync from a snapshot instead of replaying events.
	s.ws.Send(conn, s.snapshot(game))
	if playerID > 0 && game.Status != statusLobby {
		if player, found := s.store.FindPlayer(game, playerID); found && player.Role != "" {
			s.ws.Send(conn, s.roleAssignedPayload(game, player))
		}
	}
	go s.readWS(gameID, playerID, conn)
}

func (s *Server) readWS(gameID string, playerID int, conn *websocket.Conn) {
	defer s.ws.Remove(gameID, playerID, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected game_id=%s player_id=%d error=%v", gameID, playerID, err)
			return
		}
	}
}

func (s *Server) broadcastGameUpdate(game *Game) {
	if s.ws == nil {
		return
	}
	s.ws.Broadcast(game.ID, s.snapshot(game))
}

func (s *Server) notifyPhaseChange(game *Game, reason string) {
	if s.ws == nil {
		return
	}
	payload := map[string]any{
		"type":   "phase-change",
		"status": game.Status,
		"phase":  game.Phase,
		"reason": reason,
	}
	if game.PhaseDeadline != nil {
		payload["deadline"] = game.PhaseDeadline.UTC()
	}
	s.ws.Broadcast(game.ID, payload)
}

func (s *Server) notifyStatsProgress(game *Game) {
	if s.ws == nil {
		return
	}
	total, submitted := statsProgress(game)
	s.ws.Broadcast(game.ID, map[string]any{
		"type":      "stats-progress",
		"total":     total,
		"submitted": submitted,
	})
}

// notifyGuessReceived acknowledges a submission without leaking content.
func (s *Server) notifyGuessReceived(game *Game, playerID int) {
	if s.ws == nil {
		return
	}
	total, submitted := guessProgress(game)
	s.ws.Broadcast(game.ID, map[string]any{
		"type":      "guess-received",
		"player_id": playerID,
		"total":     total,
		"submitted": submitted,
	})
}

// notifyRoleAssignments tells each player their own role and nothing else.
func (s *Server) notifyRoleAssignments(game *Game) {
	if s.ws == nil {
		return
	}
	for i := range game.Players {
		player := &game.Players[i]
		s.ws.SendToPlayer(game.ID, player.ID, s.roleAssignedPayload(game, player))
	}
}

func (s *Server) roleAssignedPayload(game *Game, player *Player) map[string]any {
	role, _ := lookupRole(player.Role)
	payload := map[string]any{
		"type": "role-assigned",
		"role": map[string]any{
			"id":          role.ID,
			"name":        role.Name,
			"description": role.Description,
			"objective":   role.Objective,
			"color":       role.Color,
			"points":      role.Points,
		},
	}
	if player.Role == RoleDoubleFace {
		payload["alignment"] = player.Alignment
	}
	if player.Role == RoleRomeo {
		if partner, ok := s.store.FindPlayer(game, player.PartnerID); ok {
			payload["partner"] = map[string]any{
				"id":   partner.ID,
				"name": partner.Name,
			}
		}
	}
	if player.Role == RoleDroide {
		missions := make([]map[string]any, 0, 4)
		for _, mission := range missionsIssuedTo(game, player.ID) {
			missions = append(missions, map[string]any{
				"id":          mission.MissionID,
				"description": mission.Description,
				"issued_at":   mission.IssuedAt.UTC(),
			})
		}
		payload["missions"] = missions
	}
	return payload
}

func (s *Server) notifyMission(game *Game, assignment MissionAssignment) {
	if s.ws == nil {
		return
	}
	s.ws.SendToPlayer(game.ID, assignment.PlayerID, map[string]any{
		"type": "mission-issued",
		"mission": map[string]any{
			"id":          assignment.MissionID,
			"description": assignment.Description,
			"issued_at":   assignment.IssuedAt.UTC(),
		},
	})
}

func (s *Server) notifyReveal(game *Game) {
	if s.ws == nil {
		return
	}
	payload := buildRevealPayload(game)
	payload["type"] = "reveal"
	s.ws.Broadcast(game.ID, payload)
}
