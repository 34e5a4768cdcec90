package server

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const joinCodeAttempts = 10

type Store struct {
	mu           sync.Mutex
	nextID       int
	nextPlayerID int
	games        map[string]*Game
}

func NewStore() *Store {
	return &Store{
		nextID:       1,
		nextPlayerID: 1,
		games:        make(map[string]*Game),
	}
}

// clone deep-copies a game. The store only ever hands out clones; live
// state is touched exclusively inside UpdateGame closures under the store
// lock, so callers can read what they got back without racing concurrent
// writers.
func (g *Game) clone() *Game {
	copied := *g
	copied.Players = append([]Player(nil), g.Players...)
	for i := range copied.Players {
		if points := copied.Players[i].Points; points != nil {
			value := *points
			copied.Players[i].Points = &value
		}
	}
	if g.PhaseDeadline != nil {
		deadline := *g.PhaseDeadline
		copied.PhaseDeadline = &deadline
	}
	copied.Stats = make(map[int]StatReport, len(g.Stats))
	for playerID, report := range g.Stats {
		copied.Stats[playerID] = report
	}
	copied.Guesses = make(map[int][]RoleGuess, len(g.Guesses))
	for playerID, guesses := range g.Guesses {
		copied.Guesses[playerID] = append([]RoleGuess(nil), guesses...)
	}
	// Action entries are immutable once appended, so the slice copy is
	// enough even though they carry pointers.
	copied.Actions = append([]RoleAction(nil), g.Actions...)
	copied.Missions = append([]MissionAssignment(nil), g.Missions...)
	if g.Results != nil {
		copied.Results = make(map[int]PointsBreakdown, len(g.Results))
		for playerID, breakdown := range g.Results {
			copied.Results[playerID] = breakdown
		}
	}
	return &copied
}

func (s *Store) CreateGame() (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, err := s.uniqueJoinCode()
	if err != nil {
		return nil, err
	}
	id := fmt.Sprintf("game-%d", s.nextID)
	s.nextID++
	game := &Game{
		ID:        id,
		JoinCode:  code,
		Status:    statusLobby,
		Phase:     phaseNone,
		CreatedAt: timeNowUTC(),
		Stats:     make(map[int]StatReport),
		Guesses:   make(map[int][]RoleGuess),
	}
	s.games[id] = game
	return game.clone(), nil
}

// uniqueJoinCode retries a bounded number of times before giving up, so a
// pathological collision streak surfaces as an error instead of looping.
func (s *Store) uniqueJoinCode() (string, error) {
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code := newJoinCode()
		taken := false
		for _, game := range s.games {
			if game.JoinCode == code {
				taken = true
				break
			}
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique join code")
}

func (s *Store) GetGame(id string) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return nil, false
	}
	return game.clone(), true
}

// UpdateGame serializes all mutations to a game under the store lock; the
// closure is the single place session state may change.
func (s *Store) UpdateGame(id string, update func(game *Game) error) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return nil, errGameNotFound
	}
	if err := update(game); err != nil {
		return nil, err
	}
	return game.clone(), nil
}

func (s *Store) FindGameByJoinCode(code string) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, game := range s.games {
		if game.JoinCode == code {
			return game.clone(), true
		}
	}
	return nil, false
}

// AddPlayer joins a player to a lobby by game ID or join code. Rejoining
// with an existing name claims that seat, which is how reconnects resync.
func (s *Store) AddPlayer(gameIDOrCode, name string) (*Game, *Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[gameIDOrCode]
	if !ok {
		upper := strings.ToUpper(gameIDOrCode)
		for _, candidate := range s.games {
			if candidate.JoinCode == upper {
				game = candidate
				ok = true
				break
			}
		}
	}
	if !ok {
		return nil, nil, errGameNotFound
	}

	for i := range game.Players {
		if strings.EqualFold(game.Players[i].Name, name) {
			copied := game.clone()
			return copied, &copied.Players[i], nil
		}
	}
	if game.Status != statusLobby {
		return nil, nil, errGameStarted
	}
	if len(game.Players) >= maxPlayers {
		return nil, nil, errors.New("game is full")
	}

	player := Player{
		ID:     s.nextPlayerID,
		Name:   name,
		IsHost: len(game.Players) == 0,
		Color:  pickPlayerColor(len(game.Players)),
	}
	s.nextPlayerID++
	game.Players = append(game.Players, player)
	if player.IsHost {
		game.HostID = player.ID
	}
	copied := game.clone()
	return copied, &copied.Players[len(copied.Players)-1], nil
}

// RemovePlayer drops a player from a lobby. The last player leaving deletes
// the game; a departing host hands the seat to the next player.
func (s *Store) RemovePlayer(gameID string, playerID int) (*Game, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok {
		return nil, false, errGameNotFound
	}
	if game.Status != statusLobby {
		return nil, false, errors.New("cannot leave a started game")
	}
	index := -1
	for i := range game.Players {
		if game.Players[i].ID == playerID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, false, errPlayerNotFound
	}
	wasHost := game.Players[index].IsHost
	game.Players = append(game.Players[:index], game.Players[index+1:]...)
	if len(game.Players) == 0 {
		delete(s.games, game.ID)
		return game.clone(), true, nil
	}
	if wasHost {
		game.Players[0].IsHost = true
		game.HostID = game.Players[0].ID
	}
	return game.clone(), false, nil
}

// RestoreGame inserts a rebuilt game, bumping the ID counters past any
// restored values so new games never collide with restored ones.
func (s *Store) RestoreGame(game *Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[game.ID]; exists {
		return errors.New("game already restored")
	}
	for _, existing := range s.games {
		if existing.JoinCode == game.JoinCode {
			return errors.New("join code already in use")
		}
	}
	if key := gameSortKey(game.ID); key >= s.nextID {
		s.nextID = key + 1
	}
	for _, player := range game.Players {
		if player.ID >= s.nextPlayerID {
			s.nextPlayerID = player.ID + 1
		}
	}
	s.games[game.ID] = game.clone()
	return nil
}

func (s *Store) ListGameSummaries() []GameSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]GameSummary, 0, len(s.games))
	for _, game := range s.games {
		list = append(list, GameSummary{
			ID:       game.ID,
			JoinCode: game.JoinCode,
			Status:   game.Status,
			Phase:    game.Phase,
			Players:  len(game.Players),
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return gameSortKey(list[i].ID) < gameSortKey(list[j].ID)
	})
	return list
}

func gameSortKey(id string) int {
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return 0
	}
	value, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return value
}

func (s *Store) FindPlayer(game *Game, playerID int) (*Player, bool) {
	for i := range game.Players {
		if game.Players[i].ID == playerID {
			return &game.Players[i], true
		}
	}
	return nil, false
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
