package actor

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entry is a registered actor with its registry-assigned identity. The
// small integer ID is stable for the life of the session and is the key
// the dispatcher's per-pass dedup uses; the UID is the external identity
// effects reference across actors.
type Entry struct {
	ID  int
	UID string
	Actor
}

// Registry is the shared actor store. It is append-only from the turn
// machinery's point of view: the dispatcher merges spawns and loot but
// never removes; removal is the death-transform collaborators' job.
type Registry struct {
	logger  *zap.Logger
	nextID  int
	entries []Entry
	byUID   map[string]int
	player  int // index into entries, -1 until the player is spawned
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		logger: logger,
		byUID:  make(map[string]int),
		player: -1,
	}
}

// Spawn registers an actor, assigning the next stable ID and a fresh UID.
func (r *Registry) Spawn(a Actor) Entry {
	e := Entry{ID: r.nextID, UID: uuid.NewString(), Actor: a}
	r.nextID++
	r.byUID[e.UID] = len(r.entries)
	r.entries = append(r.entries, e)
	if a.Player() {
		r.player = len(r.entries) - 1
	}
	r.logger.Debug("actor spawned",
		zap.Int("id", e.ID),
		zap.String("uid", e.UID),
		zap.String("name", a.Name()),
		zap.String("archetype", a.Archetype()),
	)
	return e
}

// SpawnAll registers a batch of actors in order.
func (r *Registry) SpawnAll(actors []Actor) []Entry {
	entries := make([]Entry, 0, len(actors))
	for _, a := range actors {
		entries = append(entries, r.Spawn(a))
	}
	return entries
}

// Snapshot returns a point-in-time copy of the registry in ascending
// stable-ID order. Appends are monotonic so registration order is the
// canonical iteration order.
func (r *Registry) Snapshot() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Player returns the player entry, if one has been spawned.
func (r *Registry) Player() (Entry, bool) {
	if r.player < 0 {
		return Entry{}, false
	}
	return r.entries[r.player], true
}

// ByUID looks up an entry by its external identity.
func (r *Registry) ByUID(uid string) (Entry, bool) {
	idx, ok := r.byUID[uid]
	if !ok {
		return Entry{}, false
	}
	return r.entries[idx], true
}

// Len reports the number of registered actors, dead ones included.
func (r *Registry) Len() int {
	return len(r.entries)
}
