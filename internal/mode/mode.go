// Package mode holds the legacy game-mode value and the policy table that
// describes how each mode behaves around the turn cycle. The Mode enum
// predates the phase scheduler and covers both turn states and the
// non-turn states (menus, dialogue, death, victory) the rest of the game
// still keys off.
package mode

import "fmt"

// Mode is the legacy coarse game state.
type Mode int

const (
	PlayerTurn Mode = iota
	EnemyTurn
	Environment
	Resting
	AutoTravel
	Inventory
	DropMenu
	Targeting
	Dialogue
	LevelUp
	CharacterScreen
	MainMenu
	DebugMenu
	DeathScreen
	Victory
	Defeat
)

var modeNames = map[Mode]string{
	PlayerTurn:      "player_turn",
	EnemyTurn:       "enemy_turn",
	Environment:     "environment",
	Resting:         "resting",
	AutoTravel:      "auto_travel",
	Inventory:       "inventory",
	DropMenu:        "drop_menu",
	Targeting:       "targeting",
	Dialogue:        "dialogue",
	LevelUp:         "level_up",
	CharacterScreen: "character_screen",
	MainMenu:        "main_menu",
	DebugMenu:       "debug_menu",
	DeathScreen:     "death_screen",
	Victory:         "victory",
	Defeat:          "defeat",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("MODE_%d", int(m))
}

// Parse resolves a mode name as used in policy data files. The second
// return value is false for unknown names.
func Parse(name string) (Mode, bool) {
	for m, n := range modeNames {
		if n == name {
			return m, true
		}
	}
	return PlayerTurn, false
}

// All returns every defined mode, for policy validation and tests.
func All() []Mode {
	modes := make([]Mode, 0, len(modeNames))
	for m := range modeNames {
		modes = append(modes, m)
	}
	return modes
}
