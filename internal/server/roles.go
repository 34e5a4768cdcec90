package server

type RoleID string

const (
	RoleImpostor   RoleID = "impostor"
	RoleEscroc     RoleID = "escroc"
	RoleSerpentin  RoleID = "serpentin"
	RoleSuperHero  RoleID = "super_hero"
	RoleDoubleFace RoleID = "double_face"
	RoleRomeo      RoleID = "romeo"
	RoleDroide     RoleID = "droide"
)

type Role struct {
	ID          RoleID
	Name        string
	Description string
	Objective   string
	Color       string
	Points      int
}

// roleCatalog is loaded once and shared read-only across all games.
var roleCatalog = map[RoleID]Role{
	RoleImpostor: {
		ID:          RoleImpostor,
		Name:        "Impostor",
		Description: "Make your team lose without getting caught.",
		Objective:   "Avoid being identified as the Impostor at the end of the debate",
		Color:       "#FF4444",
		Points:      100,
	},
	RoleEscroc: {
		ID:          RoleEscroc,
		Name:        "Escroc",
		Description: "Act as suspiciously as possible while playing to win.",
		Objective:   "Get voted as the Impostor even though you are not",
		Color:       "#FF8844",
		Points:      75,
	},
	RoleSerpentin: {
		ID:          RoleSerpentin,
		Name:        "Serpentin",
		Description: "Sow doubt. Accuse the others and create confusion.",
		Objective:   "Get an innocent accused in your place",
		Color:       "#44FF44",
		Points:      75,
	},
	RoleSuperHero: {
		ID:          RoleSuperHero,
		Name:        "Super-Hero",
		Description: "Carry the game in the open. You have nothing to hide.",
		Objective:   "Top the team charts in damage, kills and assists",
		Color:       "#AA44FF",
		Points:      75,
	},
	RoleDoubleFace: {
		ID:          RoleDoubleFace,
		Name:        "Double-Face",
		Description: "Switch sides mid-debate. Defend, then accuse (or the reverse).",
		Objective:   "Turn your coat at the right moment, credibly",
		Color:       "#FFAA44",
		Points:      75,
	},
	RoleRomeo: {
		ID:          RoleRomeo,
		Name:        "Romeo",
		Description: "Your fate is bound to a secret partner. Protect them.",
		Objective:   "Honor the pairing rule until the end of the match",
		Color:       "#FF44AA",
		Points:      75,
	},
	RoleDroide: {
		ID:          RoleDroide,
		Name:        "Droide",
		Description: "Follow your directives. Complete every mission you receive.",
		Objective:   "Clear all issued missions before the match ends",
		Color:       "#44AAFF",
		Points:      75,
	},
}

func lookupRole(id RoleID) (Role, bool) {
	role, ok := roleCatalog[id]
	return role, ok
}

func validRoleID(id RoleID) bool {
	_, ok := roleCatalog[id]
	return ok
}

// nonImpostorRoles returns the assignable pool excluding the Impostor, in a
// stable order so shuffles start from the same base.
func nonImpostorRoles() []RoleID {
	return []RoleID{
		RoleEscroc,
		RoleSerpentin,
		RoleSuperHero,
		RoleDoubleFace,
		RoleRomeo,
		RoleDroide,
	}
}
