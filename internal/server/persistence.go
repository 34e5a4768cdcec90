package server

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"among-legends/internal/db"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

// Persistence is write-through and best-effort: the in-memory store is the
// source of truth for a live session, rows exist so finished games survive
// a restart. Every helper is a no-op when the server runs without a
// database, which is how the tests run.

func (s *Server) persistGame(game *Game) error {
	if s.db == nil {
		return nil
	}
	record := db.Game{
		PublicID:  game.ID,
		JoinCode:  game.JoinCode,
		Status:    game.Status,
		Phase:     game.Phase,
		CreatedAt: game.CreatedAt,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	// The caller holds a copy of the game; the row ID has to land on the
	// live one too, where later persists will find it.
	game.DBID = record.ID
	_, _ = s.store.UpdateGame(game.ID, func(live *Game) error {
		live.DBID = record.ID
		return nil
	})
	return nil
}

func (s *Server) persistPlayer(game *Game, player *Player) error {
	if s.db == nil || game.DBID == 0 {
		return nil
	}
	record := db.Player{
		GameID: game.DBID,
		Seat:   player.ID,
		Name:   player.Name,
		Color:  player.Color,
		IsHost: player.IsHost,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	player.DBID = record.ID
	_, _ = s.store.UpdateGame(game.ID, func(live *Game) error {
		if seat, ok := findGamePlayer(live, player.ID); ok {
			seat.DBID = record.ID
		}
		return nil
	})
	return nil
}

// persistRoles writes the start-of-game role assignments in one pass.
func (s *Server) persistRoles(game *Game) error {
	if s.db == nil || game.DBID == 0 {
		return nil
	}
	for i := range game.Players {
		player := &game.Players[i]
		if player.DBID == 0 {
			continue
		}
		updates := map[string]any{
			"role":       string(player.Role),
			"alignment":  player.Alignment,
			"partner_id": player.PartnerID,
			"is_host":    player.IsHost,
		}
		if err := s.db.Model(&db.Player{}).Where("id = ?", player.DBID).Updates(updates).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) persistPhase(game *Game) error {
	if s.db == nil || game.DBID == 0 {
		return nil
	}
	updates := map[string]any{
		"status": game.Status,
		"phase":  game.Phase,
	}
	if !game.FinishedAt.IsZero() {
		updates["finished_at"] = game.FinishedAt
	}
	return s.db.Model(&db.Game{}).Where("id = ?", game.DBID).Updates(updates).Error
}

func (s *Server) persistStats(game *Game, playerID int, report StatReport) error {
	if s.db == nil || game.DBID == 0 {
		return nil
	}
	playerDBID := findPlayerDBID(game, playerID)
	if playerDBID == 0 {
		return nil
	}
	values := map[string]any{
		"victory":     report.Victory,
		"kills":       report.Kills,
		"deaths":      report.Deaths,
		"assists":     report.Assists,
		"damage":      report.Damage,
		"creep_score": report.CreepScore,
	}
	var existing db.StatReport
	err := s.db.Where("game_id = ? AND player_id = ?", game.DBID, playerDBID).First(&existing).Error
	if err == nil {
		return s.db.Model(&existing).Updates(values).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	record := db.StatReport{
		GameID:     game.DBID,
		PlayerID:   playerDBID,
		Victory:    report.Victory,
		Kills:      report.Kills,
		Deaths:     report.Deaths,
		Assists:    report.Assists,
		Damage:     report.Damage,
		CreepScore: report.CreepScore,
	}
	if createErr := s.db.Create(&record).Error; createErr != nil {
		// A concurrent resubmission can win the insert; fall back to update.
		if isUniqueViolation(createErr) {
			return s.db.Model(&db.StatReport{}).
				Where("game_id = ? AND player_id = ?", game.DBID, playerDBID).
				Updates(values).Error
		}
		return createErr
	}
	return nil
}

// persistGuesses replaces the guesser's stored set, mirroring the in-memory
// full-set replacement.
func (s *Server) persistGuesses(game *Game, playerID int, guesses []RoleGuess) error {
	if s.db == nil || game.DBID == 0 {
		return nil
	}
	playerDBID := findPlayerDBID(game, playerID)
	if playerDBID == 0 {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ? AND player_id = ?", game.DBID, playerDBID).
			Delete(&db.RoleGuess{}).Error; err != nil {
			return err
		}
		for _, guess := range guesses {
			targetDBID := findPlayerDBID(game, guess.TargetID)
			record := db.RoleGuess{
				GameID:   game.DBID,
				PlayerID: playerDBID,
				TargetID: targetDBID,
				Role:     string(guess.Role),
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Server) persistAction(game *Game, action RoleAction) error {
	if s.db == nil || game.DBID == 0 {
		return nil
	}
	payload := actionPayload{}
	if action.Reveal != nil {
		payload.Alignment = action.Reveal.Alignment
	}
	if action.Mission != nil {
		payload.MissionID = action.Mission.MissionID
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := db.RoleAction{
		GameID:   game.DBID,
		PlayerID: findPlayerDBID(game, action.PlayerID),
		Type:     action.Type,
		Payload:  data,
	}
	return s.db.Create(&record).Error
}

func (s *Server) persistMission(game *Game, assignment MissionAssignment) error {
	if s.db == nil || game.DBID == 0 {
		return nil
	}
	record := db.Mission{
		GameID:    game.DBID,
		PlayerID:  findPlayerDBID(game, assignment.PlayerID),
		MissionID: assignment.MissionID,
		IssuedAt:  assignment.IssuedAt,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

// persistResults writes the final scoreboard onto the player rows.
func (s *Server) persistResults(game *Game) error {
	if s.db == nil || game.DBID == 0 {
		return nil
	}
	for i := range game.Players {
		player := &game.Players[i]
		if player.DBID == 0 || player.Points == nil {
			continue
		}
		if err := s.db.Model(&db.Player{}).Where("id = ?", player.DBID).
			Update("points", *player.Points).Error; err != nil {
			return err
		}
	}
	return s.persistPhase(game)
}

// persistEvent appends to the audit log. Events are telemetry, not state;
// failures are logged and swallowed.
func (s *Server) persistEvent(game *Game, eventType string, payload EventPayload) {
	if s.db == nil || game.DBID == 0 {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	record := db.Event{
		GameID:  game.DBID,
		Type:    eventType,
		Payload: data,
	}
	if payload.PlayerID != 0 {
		if dbID := findPlayerDBID(game, payload.PlayerID); dbID != 0 {
			record.PlayerID = &dbID
		}
	}
	if err := s.db.Create(&record).Error; err != nil {
		log.Printf("event persist failed game_id=%s type=%s error=%v", game.ID, eventType, err)
	}
}

type eventView struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	At      time.Time       `json:"at"`
}

func (s *Server) listEvents(game *Game, page, perPage int) ([]eventView, int64, error) {
	if s.db == nil || game.DBID == 0 {
		return []eventView{}, 0, nil
	}
	var total int64
	if err := s.db.Model(&db.Event{}).Where("game_id = ?", game.DBID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []db.Event
	if err := s.db.Where("game_id = ?", game.DBID).Order("id asc").
		Offset((page - 1) * perPage).Limit(perPage).Find(&records).Error; err != nil {
		return nil, 0, err
	}
	views := make([]eventView, 0, len(records))
	for _, record := range records {
		views = append(views, eventView{
			Type:    record.Type,
			Payload: json.RawMessage(record.Payload),
			At:      record.CreatedAt,
		})
	}
	return views, total, nil
}

func findPlayerDBID(game *Game, playerID int) uint {
	for i := range game.Players {
		if game.Players[i].ID == playerID {
			return game.Players[i].DBID
		}
	}
	return 0
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
