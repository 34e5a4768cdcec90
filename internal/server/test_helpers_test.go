package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"among-legends/internal/config"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Default()
	srv := New(nil, cfg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer res.Body.Close()
	var decoded map[string]any
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response from %s: %v", url, err)
	}
	return res, decoded
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer res.Body.Close()
	var decoded map[string]any
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response from %s: %v", url, err)
	}
	return res, decoded
}

// createLobby creates a game over HTTP and joins enough players to start.
// Returns the game ID and the player IDs in join order (index 0 is host).
func createLobby(t *testing.T, ts *httptest.Server, playerCount int) (string, []int) {
	t.Helper()
	res, body := postJSON(t, ts.URL+"/api/games", map[string]any{"name": "player-1"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create game: status %d body %v", res.StatusCode, body)
	}
	gameID := body["game_id"].(string)
	playerIDs := []int{int(body["player_id"].(float64))}

	for i := 2; i <= playerCount; i++ {
		name := fmt.Sprintf("player-%d", i)
		res, body := postJSON(t, ts.URL+"/api/games/"+gameID+"/join", map[string]any{"name": name})
		if res.StatusCode != http.StatusOK {
			t.Fatalf("join %s: status %d body %v", name, res.StatusCode, body)
		}
		playerIDs = append(playerIDs, int(body["player_id"].(float64)))
	}
	return gameID, playerIDs
}

func readyAll(t *testing.T, ts *httptest.Server, gameID string, playerIDs []int) {
	t.Helper()
	for _, id := range playerIDs {
		res, body := postJSON(t, ts.URL+"/api/games/"+gameID+"/ready", map[string]any{
			"player_id": id,
			"ready":     true,
		})
		if res.StatusCode != http.StatusOK {
			t.Fatalf("ready player %d: status %d body %v", id, res.StatusCode, body)
		}
	}
}

func startGame(t *testing.T, ts *httptest.Server, gameID string, hostID int) {
	t.Helper()
	res, body := postJSON(t, ts.URL+"/api/games/"+gameID+"/start", map[string]any{"player_id": hostID})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("start game: status %d body %v", res.StatusCode, body)
	}
}

// buildTestGame assembles an in-memory game directly, for unit tests that
// do not need the HTTP surface.
func buildTestGame(playerCount int) *Game {
	game := &Game{
		ID:       "game-1",
		JoinCode: "TESTAA",
		Status:   statusLobby,
		Stats:    make(map[int]StatReport),
		Guesses:  make(map[int][]RoleGuess),
	}
	for i := 1; i <= playerCount; i++ {
		game.Players = append(game.Players, Player{
			ID:     i,
			Name:   fmt.Sprintf("player-%d", i),
			IsHost: i == 1,
		})
	}
	game.HostID = 1
	return game
}
