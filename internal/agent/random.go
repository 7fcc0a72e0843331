package agent

import (
	"context"
	"sync"

	"golang.org/x/exp/rand"

	"github.com/peterkuimelis/evosplendor/internal/game"
)

// Random picks uniformly among the legal actions from its own seeded
// generator.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) ChooseAction(ctx context.Context, obs game.Observation, actions []game.Action) (game.Action, error) {
	if err := ctx.Err(); err != nil {
		return game.Action{}, err
	}
	if len(actions) == 0 {
		return game.Action{}, ErrNoActions
	}
	r.mu.Lock()
	i := r.rng.Intn(len(actions))
	r.mu.Unlock()
	return actions[i], nil
}
