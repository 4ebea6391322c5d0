package proposer

import (
	"context"
	"fmt"

	"github.com/motherlabs/kernel/internal/boundary"
	"github.com/motherlabs/kernel/internal/resolve"
)

// Recorded replays pre-recorded candidate sets keyed by
// "interpretations:<seed_hash>:<n>". It makes runs fully deterministic
// without any external source and is the proposer used by replay
// tooling and tests.
type Recorded struct {
	recordings map[string]resolve.Interpretations
}

// NewRecorded builds a Recorded proposer over an explicit recordings
// map. The map is not copied; callers must not mutate it after.
func NewRecorded(recordings map[string]resolve.Interpretations) *Recorded {
	return &Recorded{recordings: recordings}
}

// RecordingKey is the lookup key format shared by recorder and
// replayer.
func RecordingKey(seedHash string, n int) string {
	return fmt.Sprintf("interpretations:%s:%d", seedHash, n)
}

// ProposeInterpretations returns the recorded candidate set for the
// seed. A missing recording is an error, not an empty proposal: a
// replay with incomplete recordings must fail loudly rather than
// silently refuse.
func (r *Recorded) ProposeInterpretations(ctx context.Context, seedHash string, n int) (boundary.Proposal[resolve.Interpretations], error) {
	key := RecordingKey(seedHash, n)
	recorded, ok := r.recordings[key]
	if !ok {
		return boundary.Proposal[resolve.Interpretations]{}, fmt.Errorf("no recording for key %s", key)
	}
	return boundary.NewProposal(boundary.SourceHeuristic, recorded, nil)
}
