package server

// The end-of-session score for a player is the sum of three independent
// components: what their own guesses earned, what other players' guesses
// about them earned, and a role-specific bonus over stats and side actions.

type scoredGuess struct {
	GuesserID int
	TargetID  int
	Role      RoleID
}

type actionSummary struct {
	Revealed          bool
	RevealedAlignment string
	RespectedPairing  bool
	MissionsCompleted int
	MissionsIssued    int
}

type teamMaxima struct {
	Damage  int
	Kills   int
	Assists int
	Deaths  int
}

type scoreInput struct {
	Roles      map[int]RoleID
	Alignments map[int]string
	Guesses    []scoredGuess
	Stats      map[int]StatReport
	Actions    map[int]actionSummary
}

type bonusContext struct {
	stats            StatReport
	team             teamMaxima
	votedAsImpostor  int
	totalVoters      int
	alignment        string
	respectedPairing bool
	missionsDone     int
	missionsIssued   int
}

// roleBonusCalculator computes the role-specific scoring component. One
// implementation per role, looked up by role ID.
type roleBonusCalculator interface {
	roleBonus(ctx bonusContext) int
}

// scoreGame is pure and deterministic for fixed inputs. It assumes the
// caller already validated role consistency; a player without a StatReport
// simply earns no role bonus.
func scoreGame(in scoreInput) map[int]PointsBreakdown {
	team := computeTeamMaxima(in.Stats)
	totalVoters := countVoters(in.Guesses)

	results := make(map[int]PointsBreakdown, len(in.Roles))
	for playerID, roleID := range in.Roles {
		breakdown := PointsBreakdown{
			VoteBonus:      voteBonus(playerID, in.Guesses, in.Roles),
			DiscoveryBonus: discoveryBonus(playerID, roleID, in.Guesses, in.Roles),
		}
		if stats, ok := in.Stats[playerID]; ok {
			if calculator, found := roleBonusCalculators[roleID]; found {
				actions := in.Actions[playerID]
				breakdown.RoleBonus = calculator.roleBonus(bonusContext{
					stats:            stats,
					team:             team,
					votedAsImpostor:  countVotedAsImpostor(playerID, in.Guesses),
					totalVoters:      totalVoters,
					alignment:        effectiveAlignment(playerID, in.Alignments, actions),
					respectedPairing: actions.RespectedPairing,
					missionsDone:     actions.MissionsCompleted,
					missionsIssued:   actions.MissionsIssued,
				})
			}
		}
		breakdown.Total = breakdown.VoteBonus + breakdown.DiscoveryBonus + breakdown.RoleBonus
		results[playerID] = breakdown
	}
	return results
}

// voteBonus: +1 per correct guess this player made, -1 per miss.
func voteBonus(playerID int, guesses []scoredGuess, roles map[int]RoleID) int {
	bonus := 0
	for _, guess := range guesses {
		if guess.GuesserID != playerID {
			continue
		}
		if guess.Role == roles[guess.TargetID] {
			bonus++
		} else {
			bonus--
		}
	}
	return bonus
}

// discoveryBonus: -1 per player who saw through them, +1 per player who
// missed. The Super-Hero plays in the open and is never penalized for
// being recognized.
func discoveryBonus(playerID int, roleID RoleID, guesses []scoredGuess, roles map[int]RoleID) int {
	bonus := 0
	for _, guess := range guesses {
		if guess.TargetID != playerID {
			continue
		}
		if guess.Role == roles[playerID] {
			if roleID != RoleSuperHero {
				bonus--
			}
		} else {
			bonus++
		}
	}
	return bonus
}

func countVoters(guesses []scoredGuess) int {
	seen := make(map[int]struct{})
	for _, guess := range guesses {
		seen[guess.GuesserID] = struct{}{}
	}
	return len(seen)
}

func countVotedAsImpostor(playerID int, guesses []scoredGuess) int {
	count := 0
	for _, guess := range guesses {
		if guess.TargetID == playerID && guess.Role == RoleImpostor {
			count++
		}
	}
	return count
}

// Ties share first place: every comparison below uses >= against the team
// maximum, so all tied players collect the same bonus.
func computeTeamMaxima(stats map[int]StatReport) teamMaxima {
	var team teamMaxima
	for _, report := range stats {
		if report.Damage > team.Damage {
			team.Damage = report.Damage
		}
		if report.Kills > team.Kills {
			team.Kills = report.Kills
		}
		if report.Assists > team.Assists {
			team.Assists = report.Assists
		}
		if report.Deaths > team.Deaths {
			team.Deaths = report.Deaths
		}
	}
	return team
}

// A Double-Face who revealed mid-debate is scored on the revealed
// alignment; otherwise on the one dealt at game start.
func effectiveAlignment(playerID int, alignments map[int]string, actions actionSummary) string {
	if actions.Revealed && actions.RevealedAlignment != "" {
		return actions.RevealedAlignment
	}
	return alignments[playerID]
}

var roleBonusCalculators = map[RoleID]roleBonusCalculator{
	RoleImpostor:   impostorBonus{},
	RoleEscroc:     escrocBonus{},
	RoleSerpentin:  serpentinBonus{},
	RoleSuperHero:  superHeroBonus{},
	RoleDoubleFace: doubleFaceBonus{},
	RoleRomeo:      romeoBonus{},
	RoleDroide:     droideBonus{},
}

// Impostor wants the team to lose: the win/loss base is inverted, and
// every voter who failed to identify them is worth a point.
type impostorBonus struct{}

func (impostorBonus) roleBonus(ctx bonusContext) int {
	bonus := 2
	if ctx.stats.Victory {
		bonus = -3
	}
	return bonus + (ctx.totalVoters - ctx.votedAsImpostor)
}

// Escroc mirrors the Impostor: normal win/loss incentive, but every voter
// who wrongly accused them of being the Impostor is worth a point.
type escrocBonus struct{}

func (escrocBonus) roleBonus(ctx bonusContext) int {
	bonus := -3
	if ctx.stats.Victory {
		bonus = 2
	}
	return bonus + ctx.votedAsImpostor
}

type serpentinBonus struct{}

func (serpentinBonus) roleBonus(ctx bonusContext) int {
	bonus := -2
	if ctx.stats.Victory {
		bonus = 2
	}
	if ctx.stats.Damage >= ctx.team.Damage {
		bonus++
	}
	if ctx.stats.Deaths >= ctx.team.Deaths {
		bonus++
	}
	return bonus
}

type superHeroBonus struct{}

func (superHeroBonus) roleBonus(ctx bonusContext) int {
	bonus := -3
	if ctx.stats.Victory {
		bonus = 2
	}
	if ctx.stats.Damage >= ctx.team.Damage {
		bonus++
	}
	if ctx.stats.Kills >= ctx.team.Kills {
		bonus++
	}
	if ctx.stats.Assists >= ctx.team.Assists {
		bonus++
	}
	return bonus
}

// Double-Face has no win/loss base; its only scoring path is ending the
// match on the right side.
type doubleFaceBonus struct{}

func (doubleFaceBonus) roleBonus(ctx bonusContext) int {
	if (ctx.alignment == alignmentGood && ctx.stats.Victory) ||
		(ctx.alignment == alignmentBad && !ctx.stats.Victory) {
		return 2
	}
	return 0
}

type romeoBonus struct{}

func (romeoBonus) roleBonus(ctx bonusContext) int {
	bonus := -2
	if ctx.stats.Victory {
		bonus = 2
	}
	if ctx.respectedPairing {
		bonus++
	}
	return bonus
}

type droideBonus struct{}

func (droideBonus) roleBonus(ctx bonusContext) int {
	bonus := -2
	if ctx.stats.Victory {
		bonus = 2
	}
	if ctx.missionsIssued > 0 && ctx.missionsDone >= ctx.missionsIssued {
		bonus++
	}
	return bonus
}
