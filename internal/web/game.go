package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// GameView is the live session page. It renders a shell and lets the
// websocket feed fill in the room state.
func GameView(gameID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		escaped := templ.EscapeString(gameID)
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Among Legends</title>
    <link rel="stylesheet" href="`+assetPath("/static/styles.css")+`"/>
  </head>
  <body>
    <main class="shell" data-game-id="`+escaped+`">
      <header class="hero">
        <span class="tag">Among Legends</span>
        <h1>Join code: <span id="joinCode" class="code">...</span></h1>
        <p id="phaseLine">Connecting...</p>
      </header>

      <section class="panel">
        <h2>Players</h2>
        <ul id="playerList" class="lobby-list"></ul>
      </section>

      <section class="panel" id="rolePanel" hidden>
        <h2>Your role</h2>
        <div id="roleCard" class="result"></div>
      </section>

      <section class="panel" id="resultsPanel" hidden>
        <h2>Results</h2>
        <ul id="resultsList" class="lobby-list"></ul>
      </section>
    </main>

    <script>
      const gameId = document.querySelector("main").dataset.gameId;
      const params = new URLSearchParams(window.location.search);
      const playerId = params.get("player_id") || "";
      const proto = window.location.protocol === "https:" ? "wss" : "ws";
      const socket = new WebSocket(
        proto + "://" + window.location.host + "/ws/games/" + gameId +
        (playerId ? "?player_id=" + encodeURIComponent(playerId) : "")
      );

      const joinCode = document.getElementById("joinCode");
      const phaseLine = document.getElementById("phaseLine");
      const playerList = document.getElementById("playerList");
      const rolePanel = document.getElementById("rolePanel");
      const roleCard = document.getElementById("roleCard");
      const resultsPanel = document.getElementById("resultsPanel");
      const resultsList = document.getElementById("resultsList");

      socket.addEventListener("message", (event) => {
        const msg = JSON.parse(event.data);
        if (msg.type === "game-update") {
          renderGame(msg);
        } else if (msg.type === "role-assigned") {
          renderRole(msg);
        } else if (msg.type === "phase-change") {
          phaseLine.textContent = "Phase: " + (msg.phase || msg.status);
        }
      });

      function renderGame(game) {
        joinCode.textContent = game.join_code;
        phaseLine.textContent = "Status: " + game.status +
          (game.phase ? " / " + game.phase : "");
        playerList.innerHTML = "";
        for (const player of game.players) {
          const li = document.createElement("li");
          li.textContent = player.name +
            (player.is_host ? " (host)" : "") +
            (player.ready ? " (ready)" : "");
          playerList.appendChild(li);
        }
        if (game.results) {
          resultsPanel.hidden = false;
          resultsList.innerHTML = "";
          for (const row of game.results) {
            const li = document.createElement("li");
            li.textContent = row.name + " (" + row.role + "): " + row.total + " pts";
            resultsList.appendChild(li);
          }
        }
      }

      function renderRole(msg) {
        rolePanel.hidden = false;
        let text = msg.role.name + ": " + msg.role.objective;
        if (msg.alignment) text += " (alignment: " + msg.alignment + ")";
        if (msg.partner) text += " (partner: " + msg.partner.name + ")";
        roleCard.textContent = text;
      }
    </script>
  </body>
</html>
`)
		return nil
	})
}
