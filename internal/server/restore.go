package server

import (
	"errors"
	"sort"

	"among-legends/internal/db"
)

// Restore rebuilds a persisted game into the in-memory store, so finished
// scoreboards stay reachable across a restart. Timers are not re-armed:
// a restored mid-debate game sits until the host skips.

// lookupGame checks memory first and falls back to the database.
func (s *Server) lookupGame(gameID string) (*Game, bool) {
	if game, ok := s.store.GetGame(gameID); ok {
		return game, true
	}
	game, err := s.restoreGameFromDB(gameID)
	if err != nil {
		return nil, false
	}
	return game, true
}

func (s *Server) restoreGameFromDB(publicID string) (*Game, error) {
	if s.db == nil {
		return nil, errors.New("database not configured")
	}
	var record db.Game
	if err := s.db.Where("public_id = ?", publicID).First(&record).Error; err != nil {
		return nil, err
	}
	if existing, ok := s.store.FindGameByJoinCode(record.JoinCode); ok {
		return existing, nil
	}

	var playerRecords []db.Player
	if err := s.db.Where("game_id = ?", record.ID).Order("seat asc").Find(&playerRecords).Error; err != nil {
		return nil, err
	}

	game := &Game{
		ID:        record.PublicID,
		DBID:      record.ID,
		JoinCode:  record.JoinCode,
		Status:    record.Status,
		Phase:     record.Phase,
		CreatedAt: record.CreatedAt,
		Stats:     make(map[int]StatReport),
		Guesses:   make(map[int][]RoleGuess),
	}
	if record.FinishedAt != nil {
		game.FinishedAt = *record.FinishedAt
	}

	seatByDBID := make(map[uint]int, len(playerRecords))
	for _, rec := range playerRecords {
		player := Player{
			ID:        rec.Seat,
			DBID:      rec.ID,
			Name:      rec.Name,
			Color:     rec.Color,
			IsHost:    rec.IsHost,
			Role:      RoleID(rec.Role),
			Alignment: rec.Alignment,
			PartnerID: rec.PartnerID,
			Points:    rec.Points,
		}
		game.Players = append(game.Players, player)
		seatByDBID[rec.ID] = rec.Seat
		if rec.IsHost {
			game.HostID = rec.Seat
		}
	}

	if err := s.loadStats(game, record.ID, seatByDBID); err != nil {
		return nil, err
	}
	if err := s.loadGuesses(game, record.ID, seatByDBID); err != nil {
		return nil, err
	}
	if err := s.loadActions(game, record.ID, seatByDBID); err != nil {
		return nil, err
	}
	if err := s.loadMissions(game, record.ID, seatByDBID); err != nil {
		return nil, err
	}

	if game.Status == statusFinished {
		game.Results = scoreGame(buildScoreInput(game))
	}

	if err := s.store.RestoreGame(game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *Server) loadStats(game *Game, gameDBID uint, seatByDBID map[uint]int) error {
	var records []db.StatReport
	if err := s.db.Where("game_id = ?", gameDBID).Find(&records).Error; err != nil {
		return err
	}
	for _, rec := range records {
		seat, ok := seatByDBID[rec.PlayerID]
		if !ok {
			continue
		}
		game.Stats[seat] = StatReport{
			Victory:    rec.Victory,
			Kills:      rec.Kills,
			Deaths:     rec.Deaths,
			Assists:    rec.Assists,
			Damage:     rec.Damage,
			CreepScore: rec.CreepScore,
		}
	}
	return nil
}

func (s *Server) loadGuesses(game *Game, gameDBID uint, seatByDBID map[uint]int) error {
	var records []db.RoleGuess
	if err := s.db.Where("game_id = ?", gameDBID).Order("id asc").Find(&records).Error; err != nil {
		return err
	}
	for _, rec := range records {
		guesser, ok := seatByDBID[rec.PlayerID]
		if !ok {
			continue
		}
		target, ok := seatByDBID[rec.TargetID]
		if !ok {
			continue
		}
		game.Guesses[guesser] = append(game.Guesses[guesser], RoleGuess{
			TargetID: target,
			Role:     RoleID(rec.Role),
		})
	}
	return nil
}

func (s *Server) loadActions(game *Game, gameDBID uint, seatByDBID map[uint]int) error {
	var records []db.RoleAction
	if err := s.db.Where("game_id = ?", gameDBID).Order("id asc").Find(&records).Error; err != nil {
		return err
	}
	for _, rec := range records {
		seat, ok := seatByDBID[rec.PlayerID]
		if !ok {
			continue
		}
		action := RoleAction{
			PlayerID: seat,
			Type:     rec.Type,
			At:       rec.CreatedAt,
		}
		payload := actionPayload{}
		if err := payload.unmarshal(rec.Payload); err != nil {
			continue
		}
		switch rec.Type {
		case actionReveal:
			action.Reveal = &RevealAction{Alignment: payload.Alignment}
		case actionMissionCompleted:
			action.Mission = &MissionAction{MissionID: payload.MissionID}
		}
		game.Actions = append(game.Actions, action)
	}
	return nil
}

func (s *Server) loadMissions(game *Game, gameDBID uint, seatByDBID map[uint]int) error {
	var records []db.Mission
	if err := s.db.Where("game_id = ?", gameDBID).Order("issued_at asc").Find(&records).Error; err != nil {
		return err
	}
	descriptions := make(map[string]string, len(missionCatalog))
	for _, mission := range missionCatalog {
		descriptions[mission.ID] = mission.Description
	}
	for _, rec := range records {
		seat, ok := seatByDBID[rec.PlayerID]
		if !ok {
			continue
		}
		game.Missions = append(game.Missions, MissionAssignment{
			PlayerID:    seat,
			MissionID:   rec.MissionID,
			Description: descriptions[rec.MissionID],
			IssuedAt:    rec.IssuedAt,
		})
	}
	sort.SliceStable(game.Missions, func(i, j int) bool {
		return game.Missions[i].IssuedAt.Before(game.Missions[j].IssuedAt)
	})
	return nil
}
