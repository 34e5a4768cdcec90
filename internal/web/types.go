package web

// GameListing is the home-page view of a session.
type GameListing struct {
	ID       string `json:"id"`
	JoinCode string `json:"join_code"`
	Status   string `json:"status"`
	Phase    string `json:"phase"`
	Players  int    `json:"players"`
}
