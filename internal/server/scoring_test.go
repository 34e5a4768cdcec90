package server

import (
	"reflect"
	"testing"
)

// fiveRoles is the canonical small session: one impostor and four
// distinct crew roles.
func fiveRoles() map[int]RoleID {
	return map[int]RoleID{
		1: RoleImpostor,
		2: RoleEscroc,
		3: RoleSerpentin,
		4: RoleSuperHero,
		5: RoleDroide,
	}
}

// fullGuessSets has every player submit a complete set. Players 2, 3 and 4
// identify the impostor; player 5 mixes up the impostor and the escroc.
func fullGuessSets(roles map[int]RoleID) []scoredGuess {
	guesses := []scoredGuess{}
	confused := map[int]bool{5: true}
	for guesser := 1; guesser <= 5; guesser++ {
		for target := 1; target <= 5; target++ {
			if target == guesser {
				continue
			}
			guessed := roles[target]
			if confused[guesser] {
				if target == 1 {
					guessed = RoleEscroc
				}
				if target == 2 {
					guessed = RoleImpostor
				}
			}
			guesses = append(guesses, scoredGuess{GuesserID: guesser, TargetID: target, Role: guessed})
		}
	}
	return guesses
}

func victoryStats(playerIDs ...int) map[int]StatReport {
	stats := make(map[int]StatReport, len(playerIDs))
	for _, id := range playerIDs {
		stats[id] = StatReport{Victory: true, Kills: 2, Deaths: 3, Assists: 4, Damage: 10000}
	}
	return stats
}

func TestScoreGameImpostorCaughtDespiteWin(t *testing.T) {
	roles := fiveRoles()
	in := scoreInput{
		Roles:   roles,
		Guesses: fullGuessSets(roles),
		Stats:   victoryStats(1, 2, 3, 4, 5),
		Actions: map[int]actionSummary{},
	}
	results := scoreGame(in)

	// Five voters, three of whom named the impostor: -3 for the team win
	// plus 2 voters who missed.
	impostor := results[1]
	if impostor.RoleBonus != -1 {
		t.Fatalf("impostor role bonus = %d, want -1", impostor.RoleBonus)
	}
	// Caught by 3, missed by 1.
	if impostor.DiscoveryBonus != -2 {
		t.Fatalf("impostor discovery bonus = %d, want -2", impostor.DiscoveryBonus)
	}
	// The impostor guessed everyone else's role correctly.
	if impostor.VoteBonus != 4 {
		t.Fatalf("impostor vote bonus = %d, want 4", impostor.VoteBonus)
	}
	if impostor.Total != 1 {
		t.Fatalf("impostor total = %d, want 1", impostor.Total)
	}
}

func TestScoreGameEscrocRewardedForAccusations(t *testing.T) {
	roles := fiveRoles()
	guesses := fullGuessSets(roles)
	in := scoreInput{
		Roles:   roles,
		Guesses: guesses,
		Stats:   victoryStats(1, 2, 3, 4, 5),
		Actions: map[int]actionSummary{},
	}
	results := scoreGame(in)

	// Player 5 wrongly named the escroc as the impostor: +2 for the win
	// plus 1 accusation.
	if results[2].RoleBonus != 3 {
		t.Fatalf("escroc role bonus = %d, want 3", results[2].RoleBonus)
	}
}

func TestSuperHeroNeverPenalizedForBeingRecognized(t *testing.T) {
	roles := fiveRoles()
	in := scoreInput{
		Roles:   roles,
		Guesses: fullGuessSets(roles),
		Stats:   victoryStats(1, 2, 3, 4, 5),
		Actions: map[int]actionSummary{},
	}
	results := scoreGame(in)
	// All four peers guessed super_hero correctly; each miss would have
	// been +1, each hit contributes nothing.
	if results[4].DiscoveryBonus != 0 {
		t.Fatalf("super hero discovery bonus = %d, want 0", results[4].DiscoveryBonus)
	}
	if results[4].DiscoveryBonus < 0 {
		t.Fatal("super hero discovery bonus must never be negative")
	}
}

func TestScoreGameMissingStatsNoRoleBonus(t *testing.T) {
	roles := fiveRoles()
	stats := victoryStats(1, 2, 3, 4)
	in := scoreInput{
		Roles:   roles,
		Guesses: fullGuessSets(roles),
		Stats:   stats,
		Actions: map[int]actionSummary{5: {MissionsIssued: 2, MissionsCompleted: 2}},
	}
	results := scoreGame(in)
	if results[5].RoleBonus != 0 {
		t.Fatalf("player without stats got role bonus %d, want 0", results[5].RoleBonus)
	}
	if results[5].VoteBonus == 0 && results[5].DiscoveryBonus == 0 {
		t.Fatal("vote and discovery components should still apply without stats")
	}
}

func TestScoreGameDeterministic(t *testing.T) {
	roles := fiveRoles()
	in := scoreInput{
		Roles:   roles,
		Guesses: fullGuessSets(roles),
		Stats:   victoryStats(1, 2, 3, 4, 5),
		Actions: map[int]actionSummary{},
	}
	first := scoreGame(in)
	second := scoreGame(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("scoreGame must be deterministic for fixed input")
	}
}

func TestSuperHeroBonusTiesShareMaxima(t *testing.T) {
	team := teamMaxima{Damage: 10000, Kills: 5, Assists: 8}
	ctx := bonusContext{
		stats: StatReport{Victory: true, Damage: 10000, Kills: 5, Assists: 8},
		team:  team,
	}
	if got := (superHeroBonus{}).roleBonus(ctx); got != 5 {
		t.Fatalf("tied-on-everything super hero bonus = %d, want 5", got)
	}
	ctx.stats.Kills = 4
	if got := (superHeroBonus{}).roleBonus(ctx); got != 4 {
		t.Fatalf("super hero bonus without kill lead = %d, want 4", got)
	}
}

func TestSerpentinBonusDamageAndDeaths(t *testing.T) {
	ctx := bonusContext{
		stats: StatReport{Victory: false, Damage: 9000, Deaths: 7},
		team:  teamMaxima{Damage: 9000, Deaths: 7},
	}
	if got := (serpentinBonus{}).roleBonus(ctx); got != 0 {
		t.Fatalf("serpentin bonus = %d, want 0 (-2 loss, +1 damage, +1 deaths)", got)
	}
}

func TestDoubleFaceBonusUsesEffectiveAlignment(t *testing.T) {
	// Dealt bad, revealed good, team won: the reveal decides.
	alignments := map[int]string{7: alignmentBad}
	actions := actionSummary{Revealed: true, RevealedAlignment: alignmentGood}
	effective := effectiveAlignment(7, alignments, actions)
	ctx := bonusContext{stats: StatReport{Victory: true}, alignment: effective}
	if got := (doubleFaceBonus{}).roleBonus(ctx); got != 2 {
		t.Fatalf("revealed-good double face on a win = %d, want 2", got)
	}

	// No reveal: the dealt alignment stands and the win pays nothing.
	effective = effectiveAlignment(7, alignments, actionSummary{})
	ctx = bonusContext{stats: StatReport{Victory: true}, alignment: effective}
	if got := (doubleFaceBonus{}).roleBonus(ctx); got != 0 {
		t.Fatalf("dealt-bad double face on a win = %d, want 0", got)
	}
}

func TestRomeoBonusPairing(t *testing.T) {
	ctx := bonusContext{stats: StatReport{Victory: false}, respectedPairing: true}
	if got := (romeoBonus{}).roleBonus(ctx); got != -1 {
		t.Fatalf("romeo loss with pairing = %d, want -1", got)
	}
}

func TestDroideBonusRequiresIssuedMissions(t *testing.T) {
	ctx := bonusContext{stats: StatReport{Victory: true}}
	if got := (droideBonus{}).roleBonus(ctx); got != 2 {
		t.Fatalf("droide with no missions = %d, want 2 (no completion bonus)", got)
	}
	ctx.missionsIssued = 3
	ctx.missionsDone = 3
	if got := (droideBonus{}).roleBonus(ctx); got != 3 {
		t.Fatalf("droide with all missions done = %d, want 3", got)
	}
	ctx.missionsDone = 2
	if got := (droideBonus{}).roleBonus(ctx); got != 2 {
		t.Fatalf("droide with missions pending = %d, want 2", got)
	}
}

func TestCountVotersDistinctGuessers(t *testing.T) {
	guesses := []scoredGuess{
		{GuesserID: 1, TargetID: 2, Role: RoleEscroc},
		{GuesserID: 1, TargetID: 3, Role: RoleDroide},
		{GuesserID: 2, TargetID: 1, Role: RoleImpostor},
	}
	if got := countVoters(guesses); got != 2 {
		t.Fatalf("countVoters = %d, want 2", got)
	}
}
