package actor

import "fmt"

// EffectKind discriminates the closed set of turn-effect variants. Result
// processing switches over it exhaustively; there is no open-ended "any
// key might be present" contract.
type EffectKind int

const (
	// EffectMessage appends one line to the message log.
	EffectMessage EffectKind = iota
	// EffectSplit merges newly spawned actors into the registry.
	EffectSplit
	// EffectDead reports that the actor identified by DeadUID died.
	EffectDead
	// EffectEndRally strips the named status from every actor the source
	// granted it to and clears the source's back-reference.
	EffectEndRally
	// EffectInterruptChant is the chant twin of EffectEndRally.
	EffectInterruptChant
)

var effectKindNames = map[EffectKind]string{
	EffectMessage:        "message",
	EffectSplit:          "split",
	EffectDead:           "dead",
	EffectEndRally:       "end_rally",
	EffectInterruptChant: "interrupt_chant",
}

func (k EffectKind) String() string {
	if name, ok := effectKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EFFECT_%d", int(k))
}

// Effect is one entry of an actor's ordered turn-result list. Only the
// fields relevant to Kind are set; constructors keep that straight.
type Effect struct {
	Kind EffectKind

	// Text is the message line for EffectMessage.
	Text string
	// Spawned holds the new actors for EffectSplit.
	Spawned []Actor
	// DeadUID identifies the dead actor for EffectDead.
	DeadUID string
	// SourceUID identifies the granting actor for the status variants.
	SourceUID string
	// Status is the status-effect name for the status variants.
	Status string
	// Messages are the log lines accompanying the status variants.
	Messages []string
}

// NewMessage builds a message effect.
func NewMessage(text string) Effect {
	return Effect{Kind: EffectMessage, Text: text}
}

// NewSplit builds a split effect carrying the spawned actors.
func NewSplit(text string, spawned ...Actor) Effect {
	return Effect{Kind: EffectSplit, Text: text, Spawned: spawned}
}

// NewDead builds a death report for the actor with the given UID.
func NewDead(deadUID string) Effect {
	return Effect{Kind: EffectDead, DeadUID: deadUID}
}

// NewEndRally builds a rally-termination effect.
func NewEndRally(sourceUID, status string, messages ...string) Effect {
	return Effect{Kind: EffectEndRally, SourceUID: sourceUID, Status: status, Messages: messages}
}

// NewInterruptChant builds a chant-interruption effect.
func NewInterruptChant(sourceUID, status string, messages ...string) Effect {
	return Effect{Kind: EffectInterruptChant, SourceUID: sourceUID, Status: status, Messages: messages}
}
