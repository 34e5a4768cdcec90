package db

import (
	"reflect"
	"strings"
	"testing"
)

// Player names are unique per game, not globally; both columns must carry
// the same index name so AutoMigrate builds the composite constraint the
// SQL migration declares.
func TestPlayerIndexesAreComposite(t *testing.T) {
	typ := reflect.TypeOf(Player{})
	for _, tc := range []struct {
		index  string
		fields []string
	}{
		{"idx_players_game_seat", []string{"GameID", "Seat"}},
		{"idx_players_game_name", []string{"GameID", "Name"}},
	} {
		for _, name := range tc.fields {
			field, ok := typ.FieldByName(name)
			if !ok {
				t.Fatalf("Player has no field %s", name)
			}
			if !strings.Contains(field.Tag.Get("gorm"), "uniqueIndex:"+tc.index) {
				t.Fatalf("Player.%s is missing uniqueIndex %s", name, tc.index)
			}
		}
	}
}
