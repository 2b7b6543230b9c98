package runtime

import (
	"chat-mock/contract"
	"math/rand"
	"sync"
	"time"
)

var (
	_ contract.Clock        = SystemClock{}
	_ contract.ReplyTrigger = (*RandomTrigger)(nil)
)

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RandomTrigger fires with the given probability on each call.
// The underlying *rand.Rand is not safe for concurrent use, hence the lock.
type RandomTrigger struct {
	mu          sync.Mutex
	rng         *rand.Rand
	probability float64
}

func NewRandomTrigger(rng *rand.Rand, probability float64) *RandomTrigger {
	return &RandomTrigger{rng: rng, probability: probability}
}

func (t *RandomTrigger) ShouldReply() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rng.Float64() < t.probability
}
