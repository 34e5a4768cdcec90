package db

import (
	"time"

	"gorm.io/datatypes"
)

type Game struct {
	ID         uint       `gorm:"primaryKey"`
	PublicID   string     `gorm:"size:32;uniqueIndex;not null"`
	JoinCode   string     `gorm:"size:12;uniqueIndex;not null"`
	Status     string     `gorm:"size:32;not null"`
	Phase      string     `gorm:"size:32;not null;default:''"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
	FinishedAt *time.Time `gorm:"index"`
	Players    []Player
	Stats      []StatReport
	Guesses    []RoleGuess
	Actions    []RoleAction
	Missions   []Mission
	Events     []Event
}

type Player struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"index;not null;uniqueIndex:idx_players_game_seat;uniqueIndex:idx_players_game_name"`
	Seat      int       `gorm:"not null;uniqueIndex:idx_players_game_seat"`
	Name      string    `gorm:"size:64;not null;uniqueIndex:idx_players_game_name"`
	Color     string    `gorm:"size:32;not null"`
	IsHost    bool      `gorm:"not null;default:false"`
	Role      string    `gorm:"size:32;not null;default:''"`
	Alignment string    `gorm:"size:16;not null;default:''"`
	PartnerID int       `gorm:"not null;default:0"`
	Points    *int      `gorm:""`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// StatReport mirrors the self-reported match performance of one player,
// one row per (game, player), replaced on resubmission.
type StatReport struct {
	ID         uint      `gorm:"primaryKey"`
	GameID     uint      `gorm:"index;not null;uniqueIndex:idx_stats_game_player"`
	PlayerID   uint      `gorm:"index;not null;uniqueIndex:idx_stats_game_player"`
	Victory    bool      `gorm:"not null;default:false"`
	Kills      int       `gorm:"not null;default:0"`
	Deaths     int       `gorm:"not null;default:0"`
	Assists    int       `gorm:"not null;default:0"`
	Damage     int       `gorm:"not null;default:0"`
	CreepScore int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// RoleGuess is one entry of a guesser's full set; sets are replaced whole.
type RoleGuess struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"index;not null"`
	PlayerID  uint      `gorm:"index;not null;uniqueIndex:idx_guesses_player_target"`
	TargetID  uint      `gorm:"index;not null;uniqueIndex:idx_guesses_player_target"`
	Role      string    `gorm:"size:32;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// RoleAction is the append-only side-action log; Payload carries the
// type-specific fields as JSON.
type RoleAction struct {
	ID        uint           `gorm:"primaryKey"`
	GameID    uint           `gorm:"index;not null"`
	PlayerID  uint           `gorm:"index;not null"`
	Type      string         `gorm:"size:32;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}

type Mission struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"index;not null;uniqueIndex:idx_missions_game_mission"`
	PlayerID  uint      `gorm:"index;not null"`
	MissionID string    `gorm:"size:32;not null;uniqueIndex:idx_missions_game_mission"`
	IssuedAt  time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	GameID    uint           `gorm:"index;not null"`
	PlayerID  *uint          `gorm:"index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
