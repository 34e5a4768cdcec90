package server

import "time"

const (
	statusLobby    = "lobby"
	statusPlaying  = "playing"
	statusVoting   = "voting"
	statusFinished = "finished"
)

const (
	phaseNone   = ""
	phaseStats  = "stats"
	phaseDebate = "debate"
	phaseVote   = "vote"
	phaseReveal = "reveal"
)

const (
	minPlayers = 5
	maxPlayers = 10
)

const (
	actionReveal           = "reveal"
	actionMissionCompleted = "mission_completed"
)

const (
	alignmentGood = "good"
	alignmentBad  = "bad"
)

type GameSummary struct {
	ID       string
	JoinCode string
	Status   string
	Phase    string
	Players  int
}

type Game struct {
	ID              string
	DBID            uint
	JoinCode        string
	HostID          int
	Status          string
	Phase           string
	PhaseDeadline   *time.Time
	DebateStartedAt time.Time
	CreatedAt       time.Time
	FinishedAt      time.Time
	Players         []Player
	Stats           map[int]StatReport
	Guesses         map[int][]RoleGuess
	Actions         []RoleAction
	Missions        []MissionAssignment
	Results         map[int]PointsBreakdown
}

type Player struct {
	ID        int
	DBID      uint
	Name      string
	Color     string
	IsHost    bool
	Ready     bool
	Role      RoleID
	Alignment string
	PartnerID int
	Points    *int
}

// StatReport is the self-reported match performance of one player.
// Trust-based; values are coerced to non-negative but never verified.
type StatReport struct {
	Victory    bool
	Kills      int
	Deaths     int
	Assists    int
	Damage     int
	CreepScore int
}

type RoleGuess struct {
	TargetID int
	Role     RoleID
}

// RoleAction is one entry in the append-only side-action log. Type selects
// which payload pointer is set.
type RoleAction struct {
	PlayerID int
	Type     string
	Reveal   *RevealAction
	Mission  *MissionAction
	At       time.Time
}

type RevealAction struct {
	Alignment string
}

type MissionAction struct {
	MissionID string
}

type MissionAssignment struct {
	PlayerID    int
	MissionID   string
	Description string
	IssuedAt    time.Time
}

type PointsBreakdown struct {
	VoteBonus      int
	DiscoveryBonus int
	RoleBonus      int
	Total          int
}
