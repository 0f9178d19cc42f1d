package mode

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy answers the three questions the turn machinery asks about a mode.
// The dispatcher and controller never hardcode mode behavior; they go
// through a Policy so the answers stay data-driven.
type Policy interface {
	// TransitionsToEnemy reports whether ending a player action in this
	// mode hands the turn to the enemy phase.
	TransitionsToEnemy(m Mode) bool
	// PreservedAcrossEnemyTurn reports whether this mode must be restored
	// after the enemy phase instead of defaulting to the player turn.
	PreservedAcrossEnemyTurn(m Mode) bool
	// AllowsAIProcessing reports whether actor dispatch may run at all
	// while the game is in this mode.
	AllowsAIProcessing(m Mode) bool
}

// Traits is the per-mode policy record as it appears in the data file.
// The zero value answers no to everything, which is the required default
// for unknown modes.
type Traits struct {
	TransitionsToEnemy       bool `yaml:"transitions_to_enemy"`
	PreservedAcrossEnemyTurn bool `yaml:"preserved_across_enemy_turn"`
	AllowsAI                 bool `yaml:"allows_ai"`
}

// TablePolicy is a Policy backed by a traits table.
type TablePolicy struct {
	traits map[Mode]Traits
}

// TransitionsToEnemy implements Policy.
func (p *TablePolicy) TransitionsToEnemy(m Mode) bool {
	return p.traits[m].TransitionsToEnemy
}

// PreservedAcrossEnemyTurn implements Policy.
func (p *TablePolicy) PreservedAcrossEnemyTurn(m Mode) bool {
	return p.traits[m].PreservedAcrossEnemyTurn
}

// AllowsAIProcessing implements Policy.
func (p *TablePolicy) AllowsAIProcessing(m Mode) bool {
	return p.traits[m].AllowsAI
}

// Traits returns the record for a mode, zero for unknown modes.
func (p *TablePolicy) Traits(m Mode) Traits {
	return p.traits[m]
}

type policyFile struct {
	Modes map[string]Traits `yaml:"modes"`
}

//go:embed modes.yaml
var defaultPolicyData []byte

// DefaultPolicy returns the built-in policy table. It panics only if the
// embedded data is malformed, which is a build defect.
func DefaultPolicy() *TablePolicy {
	p, err := ParsePolicy(defaultPolicyData)
	if err != nil {
		panic(fmt.Sprintf("embedded modes.yaml is invalid: %v", err))
	}
	return p
}

// LoadPolicy reads a policy table from a YAML file.
func LoadPolicy(path string) (*TablePolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mode policy %s: %w", path, err)
	}
	p, err := ParsePolicy(data)
	if err != nil {
		return nil, fmt.Errorf("parse mode policy %s: %w", path, err)
	}
	return p, nil
}

// ParsePolicy parses YAML policy data. Unknown mode names are rejected so
// a typo in the data file fails loudly instead of silently answering no.
func ParsePolicy(data []byte) (*TablePolicy, error) {
	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	traits := make(map[Mode]Traits, len(file.Modes))
	for name, t := range file.Modes {
		m, ok := Parse(name)
		if !ok {
			return nil, fmt.Errorf("unknown mode %q", name)
		}
		traits[m] = t
	}
	return &TablePolicy{traits: traits}, nil
}
