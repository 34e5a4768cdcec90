package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home(games []GameListing) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Among Legends</title>
    <link rel="stylesheet" href="`+assetPath("/static/styles.css")+`"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Among Legends</span>
        <h1>One of you is not playing to win.</h1>
        <p>Queue up together, play your secret role, then vote on who was who.</p>
      </header>

      <section class="panel">
        <div>
          <h2>Create a game</h2>
          <p>Open a lobby and share the join code with your team.</p>
        </div>
        <form id="createForm" class="join-form">
          <input name="name" placeholder="Display name" autocomplete="name" required/>
          <button type="submit" class="primary">Create game</button>
        </form>
        <div id="createResult" class="result"></div>
      </section>

      <section class="panel">
        <div>
          <h2>Join a game</h2>
          <p>Enter the join code from the host and your display name.</p>
        </div>
        <form id="joinForm" class="join-form">
          <input name="code" placeholder="Join code" autocomplete="off" required/>
          <input name="name" placeholder="Display name" autocomplete="name" required/>
          <button type="submit" class="secondary">Join game</button>
        </form>
        <div id="joinResult" class="result"></div>
      </section>
`)
		if len(games) > 0 {
			_, _ = io.WriteString(w, `
      <section class="panel">
        <h2>Open lobbies</h2>
        <ul class="lobby-list">
`)
			for _, game := range games {
				if game.Status != "lobby" {
					continue
				}
				_, _ = io.WriteString(w, `          <li><span class="code">`+
					templ.EscapeString(game.JoinCode)+`</span> `+
					itoa(game.Players)+` players</li>
`)
			}
			_, _ = io.WriteString(w, `        </ul>
      </section>
`)
		}
		_, _ = io.WriteString(w, `    </main>

    <script>
      const createForm = document.getElementById("createForm");
      const createResult = document.getElementById("createResult");
      const joinForm = document.getElementById("joinForm");
      const joinResult = document.getElementById("joinResult");

      createForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        createResult.textContent = "Creating game...";
        const name = createForm.elements.name.value.trim();
        const res = await fetch("/api/games", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ name })
        });
        const data = await res.json();
        if (!res.ok) {
          createResult.textContent = data.error || "Failed to create game.";
          return;
        }
        createResult.textContent = "Game created. Join code: " + data.join_code;
      });

      joinForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        joinResult.textContent = "Joining game...";
        const code = joinForm.elements.code.value.trim();
        const name = joinForm.elements.name.value.trim();
        const res = await fetch("/api/games/" + encodeURIComponent(code) + "/join", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ name })
        });
        const data = await res.json();
        if (!res.ok) {
          joinResult.textContent = data.error || "Failed to join game.";
          return;
        }
        joinResult.textContent = "Joined game " + data.game_id + " as player " + data.player_id + ".";
      });
    </script>
  </body>
</html>
`)
		return nil
	})
}
