package server

import (
	"log"
	"net/http"

	"among-legends/internal/web"
)

type createGameRequest struct {
	Name string `json:"name"`
}

type joinRequest struct {
	Name string `json:"name"`
}

type readyRequest struct {
	PlayerID int  `json:"player_id"`
	Ready    bool `json:"ready"`
}

type playerRequest struct {
	PlayerID int `json:"player_id"`
}

type statsRequest struct {
	PlayerID   int  `json:"player_id"`
	Victory    bool `json:"victory"`
	Kills      int  `json:"kills"`
	Deaths     int  `json:"deaths"`
	Assists    int  `json:"assists"`
	Damage     int  `json:"damage"`
	CreepScore int  `json:"creep_score"`
}

type guessEntry struct {
	TargetID int    `json:"target_id"`
	Role     RoleID `json:"role"`
}

type guessesRequest struct {
	PlayerID int          `json:"player_id"`
	Guesses  []guessEntry `json:"guesses"`
}

type actionRequest struct {
	PlayerID  int    `json:"player_id"`
	Type      string `json:"type"`
	Alignment string `json:"alignment"`
	MissionID string `json:"mission_id"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	summaries := s.store.ListGameSummaries()
	listings := make([]web.GameListing, 0, len(summaries))
	for _, summary := range summaries {
		listings = append(listings, web.GameListing{
			ID:       summary.ID,
			JoinCode: summary.JoinCode,
			Status:   summary.Status,
			Phase:    summary.Phase,
			Players:  summary.Players,
		})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.Home(listings).Render(r.Context(), w); err != nil {
		log.Printf("home render failed error=%v", err)
	}
}

// handleCreateGame creates a session and seats the caller as its host.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	game, err := s.store.CreateGame()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	game, player, err := s.store.AddPlayer(game.ID, name)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err := s.persistGame(game); err != nil {
		log.Printf("game persist failed game_id=%s error=%v", game.ID, err)
	}
	if err := s.persistPlayer(game, player); err != nil {
		log.Printf("player persist failed game_id=%s player_id=%d error=%v", game.ID, player.ID, err)
	}
	s.persistEvent(game, "game-created", EventPayload{JoinCode: game.JoinCode, PlayerName: player.Name})
	log.Printf("game created game_id=%s join_code=%s host=%s", game.ID, game.JoinCode, player.Name)
	writeJSON(w, http.StatusCreated, map[string]any{
		"game_id":   game.ID,
		"join_code": game.JoinCode,
		"player_id": player.ID,
		"is_host":   player.IsHost,
	})
}

func (s *Server) handleGameSubroutes(w http.ResponseWriter, r *http.Request) {
	gameID, action, ok := parseGamePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodGet {
		switch action {
		case "":
			s.handleGetGame(w, r, gameID)
		case "results":
			s.handleGetResults(w, r, gameID)
		case "events":
			s.handleGetEvents(w, r, gameID)
		default:
			http.NotFound(w, r)
		}
		return
	}
	switch action {
	case "join":
		s.handleJoin(w, r, gameID)
	case "ready":
		s.handleReady(w, r, gameID)
	case "start":
		s.handleStart(w, r, gameID)
	case "advance":
		s.handleAdvance(w, r, gameID)
	case "stats":
		s.handleStats(w, r, gameID)
	case "guesses":
		s.handleGuesses(w, r, gameID)
	case "actions":
		s.handleActions(w, r, gameID)
	case "skip":
		s.handleSkip(w, r, gameID)
	case "leave":
		s.handleLeave(w, r, gameID)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request, gameID string) {
	game, ok := s.lookupGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot(game))
}

func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request, gameID string) {
	game, ok := s.lookupGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if game.Status != statusFinished {
		writeError(w, http.StatusConflict, "game is not finished")
		return
	}
	writeJSON(w, http.StatusOK, buildRevealPayload(game))
}

func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request, gameID string) {
	game, ok := s.lookupGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	page, perPage := parsePagination(r, 50, 200)
	events, total, err := s.listEvents(game, page, perPage)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events":   events,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}

// handleJoin accepts the game ID or the join code in the path, so share
// links and typed codes land on the same endpoint.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request, gameIDOrCode string) {
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	game, player, err := s.store.AddPlayer(gameIDOrCode, name)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if player.DBID == 0 {
		if err := s.persistPlayer(game, player); err != nil {
			log.Printf("player persist failed game_id=%s player_id=%d error=%v", game.ID, player.ID, err)
		}
	}
	s.persistEvent(game, "player-joined", EventPayload{PlayerName: player.Name, PlayerID: player.ID})
	log.Printf("player joined game_id=%s player_id=%d name=%s", game.ID, player.ID, player.Name)
	s.broadcastGameUpdate(game)
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id":   game.ID,
		"join_code": game.JoinCode,
		"player_id": player.ID,
		"is_host":   player.IsHost,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request, gameID string) {
	var req readyRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		if game.Status != statusLobby {
			return errGameStarted
		}
		player, ok := findGamePlayer(game, req.PlayerID)
		if !ok {
			return errPlayerNotFound
		}
		player.Ready = req.Ready
		return nil
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	s.persistEvent(game, "player-ready", EventPayload{PlayerID: req.PlayerID, Ready: req.Ready})
	s.broadcastGameUpdate(game)
	writeJSON(w, http.StatusOK, s.snapshot(game))
}

// handleStart assigns roles and moves the lobby into the match window. Role
// identities leave the server only through private per-player sends.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, gameID string) {
	var req playerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	now := timeNowUTC()
	var initialMissions []MissionAssignment
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		if game.Status != statusLobby {
			return errGameStarted
		}
		if game.HostID != req.PlayerID {
			return errHostOnly
		}
		if len(game.Players) < minPlayers {
			return errNotEnoughPlayers
		}
		for i := range game.Players {
			if !game.Players[i].Ready {
				return errNotAllReady
			}
		}
		playerIDs := make([]int, len(game.Players))
		for i := range game.Players {
			playerIDs[i] = game.Players[i].ID
		}
		assignments, err := assignRoles(playerIDs)
		if err != nil {
			return err
		}
		for i := range game.Players {
			player := &game.Players[i]
			player.Role = assignments[player.ID]
			switch player.Role {
			case RoleDoubleFace:
				player.Alignment = randomAlignment()
			case RoleRomeo:
				player.PartnerID = pickPartner(playerIDs, player.ID)
			}
		}
		game.Status = statusPlaying
		game.Phase = phaseNone
		for _, bearerID := range missionBearers(game) {
			if assignment, ok := issueMission(game, bearerID, s.cfg.MissionsPerGame, now); ok {
				initialMissions = append(initialMissions, assignment)
			}
		}
		return nil
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if err := s.persistRoles(game); err != nil {
		log.Printf("role persist failed game_id=%s error=%v", game.ID, err)
	}
	if err := s.persistPhase(game); err != nil {
		log.Printf("phase persist failed game_id=%s error=%v", game.ID, err)
	}
	for _, assignment := range initialMissions {
		if err := s.persistMission(game, assignment); err != nil {
			log.Printf("mission persist failed game_id=%s player_id=%d error=%v", game.ID, assignment.PlayerID, err)
		}
	}
	s.persistEvent(game, "game-started", EventPayload{Status: game.Status, Count: len(game.Players)})
	log.Printf("game started game_id=%s players=%d", game.ID, len(game.Players))
	s.scheduleMissionTimers(game.ID)
	s.notifyRoleAssignments(game)
	s.broadcastGameUpdate(game)
	writeJSON(w, http.StatusOK, s.snapshot(game))
}

// handleAdvance is the host declaring the match over, which opens the
// stats phase.
func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request, gameID string) {
	var req playerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.requireHost(gameID, req.PlayerID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	game, advanced, err := s.advancePhase(gameID, gameState{statusPlaying, phaseNone})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if !advanced {
		writeError(w, http.StatusConflict, "game is not in the match window")
		return
	}
	s.afterPhaseAdvance(game, "host")
	writeJSON(w, http.StatusOK, s.snapshot(game))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, gameID string) {
	var req statsRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	report := StatReport{
		Victory:    req.Victory,
		Kills:      req.Kills,
		Deaths:     req.Deaths,
		Assists:    req.Assists,
		Damage:     req.Damage,
		CreepScore: req.CreepScore,
	}
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		return upsertStats(game, req.PlayerID, report)
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if err := s.persistStats(game, req.PlayerID, game.Stats[req.PlayerID]); err != nil {
		log.Printf("stats persist failed game_id=%s player_id=%d error=%v", game.ID, req.PlayerID, err)
	}
	s.notifyStatsProgress(game)
	if advancedGame, advanced, advErr := s.tryAdvanceFromStats(gameID); advErr == nil && advancedGame != nil {
		game = advancedGame
		if advanced {
			log.Printf("stats complete game_id=%s", game.ID)
			s.afterPhaseAdvance(game, "stats-complete")
		}
	}
	writeJSON(w, http.StatusOK, s.snapshot(game))
}

func (s *Server) handleGuesses(w http.ResponseWriter, r *http.Request, gameID string) {
	var req guessesRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	guesses := make([]RoleGuess, 0, len(req.Guesses))
	for _, entry := range req.Guesses {
		guesses = append(guesses, RoleGuess{TargetID: entry.TargetID, Role: entry.Role})
	}
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		return replaceGuesses(game, req.PlayerID, guesses)
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if err := s.persistGuesses(game, req.PlayerID, game.Guesses[req.PlayerID]); err != nil {
		log.Printf("guess persist failed game_id=%s player_id=%d error=%v", game.ID, req.PlayerID, err)
	}
	s.notifyGuessReceived(game, req.PlayerID)
	if finishedGame, finished, finishErr := s.tryFinishFromVotes(gameID); finishErr == nil && finishedGame != nil {
		game = finishedGame
		if finished {
			log.Printf("all guesses in game_id=%s", game.ID)
			s.afterPhaseAdvance(game, "votes-complete")
		}
	}
	writeJSON(w, http.StatusOK, s.snapshot(game))
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request, gameID string) {
	var req actionRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	now := timeNowUTC()
	var recorded RoleAction
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		var err error
		switch req.Type {
		case actionReveal:
			recorded, err = recordReveal(game, req.PlayerID, req.Alignment, s.cfg.RevealWindow(), now)
		case actionMissionCompleted:
			recorded, err = recordMissionCompleted(game, req.PlayerID, req.MissionID, now)
		default:
			err = errUnknownActionType
		}
		return err
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if err := s.persistAction(game, recorded); err != nil {
		log.Printf("action persist failed game_id=%s player_id=%d error=%v", game.ID, req.PlayerID, err)
	}
	s.persistEvent(game, "action-recorded", EventPayload{
		PlayerID:   req.PlayerID,
		ActionType: recorded.Type,
		MissionID:  req.MissionID,
	})
	log.Printf("action recorded game_id=%s player_id=%d type=%s", game.ID, req.PlayerID, recorded.Type)
	if recorded.Type == actionReveal && recorded.Reveal != nil {
		// The reveal is a public table-talk moment; everyone sees it.
		s.ws.Broadcast(game.ID, map[string]any{
			"type":      "alignment-revealed",
			"player_id": req.PlayerID,
			"alignment": recorded.Reveal.Alignment,
		})
	}
	if recorded.Type == actionMissionCompleted {
		total, completed := missionsProgress(game, req.PlayerID)
		s.ws.SendToPlayer(game.ID, req.PlayerID, map[string]any{
			"type":      "mission-progress",
			"issued":    total,
			"completed": completed,
		})
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// handleSkip lets the host cut the debate short. It funnels into the same
// advance as the debate timer, so a near-simultaneous timeout is harmless.
func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request, gameID string) {
	var req playerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.requireHost(gameID, req.PlayerID); err != nil {
		writeStoreError(w, r, err)
		return
	}
	game, advanced, err := s.advancePhase(gameID, gameState{statusPlaying, phaseDebate})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if !advanced {
		writeError(w, http.StatusConflict, "game is not in the debate")
		return
	}
	s.afterPhaseAdvance(game, "host-skip")
	writeJSON(w, http.StatusOK, s.snapshot(game))
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request, gameID string) {
	var req playerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	game, deleted, err := s.store.RemovePlayer(gameID, req.PlayerID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if deleted {
		s.cancelTimers(gameID)
		log.Printf("game deleted game_id=%s reason=empty", gameID)
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		return
	}
	s.persistEvent(game, "player-left", EventPayload{PlayerID: req.PlayerID})
	s.broadcastGameUpdate(game)
	writeJSON(w, http.StatusOK, s.snapshot(game))
}

func (s *Server) requireHost(gameID string, playerID int) error {
	game, ok := s.store.GetGame(gameID)
	if !ok {
		return errGameNotFound
	}
	if game.HostID != playerID {
		return errHostOnly
	}
	return nil
}

// afterPhaseAdvance is the shared follow-up for every successful phase
// transition, whatever triggered it: persist, notify, and re-arm or tear
// down timers.
func (s *Server) afterPhaseAdvance(game *Game, reason string) {
	if err := s.persistPhase(game); err != nil {
		log.Printf("phase persist failed game_id=%s error=%v", game.ID, err)
	}
	s.persistEvent(game, "phase-advanced", EventPayload{
		Status: game.Status,
		Phase:  game.Phase,
		Reason: reason,
	})
	s.notifyPhaseChange(game, reason)
	s.broadcastGameUpdate(game)
	if game.Status == statusFinished {
		s.cancelTimers(game.ID)
		if err := s.persistResults(game); err != nil {
			log.Printf("results persist failed game_id=%s error=%v", game.ID, err)
		}
		s.notifyReveal(game)
		log.Printf("game finished game_id=%s", game.ID)
		return
	}
	s.schedulePhaseTimer(game)
}

func missionsProgress(game *Game, playerID int) (issued, completed int) {
	return len(missionsIssuedTo(game, playerID)), countCompletedMissions(game, playerID)
}
