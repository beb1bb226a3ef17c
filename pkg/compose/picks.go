package compose

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/samber/lo"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/sector"
)

// Selection describes which sectors are composed.
// EventIndexes and Sectors are parallel; if both are empty (or invalid) Count
// sectors are chosen randomly (Count <= 0: all sectors).
type Selection struct {
	Count        int
	EventIndexes []int
	Sectors      []int
	Seed         uint64
}

func (s Selection) explicit() bool {
	return len(s.EventIndexes) > 0 || len(s.Sectors) > 0
}

// Validate checks the explicit picks against the dictionary
func (s Selection) Validate(dict *sector.Dictionary) error {
	if len(s.EventIndexes) != len(s.Sectors) {
		return fmt.Errorf("got %d event indexes but %d sectors",
			len(s.EventIndexes), len(s.Sectors))
	}
	for i := range s.EventIndexes {
		ev, sec := s.EventIndexes[i], s.Sectors[i]
		if sec < 1 || sec > 3 {
			return fmt.Errorf("pick %d: sector %d not in 1..3", i, sec)
		}
		if ev < 0 || ev >= len(dict.Events) {
			return fmt.Errorf("pick %d: event index %d not in 0..%d",
				i, ev, len(dict.Events)-1)
		}
		if _, ok := dict.Get(ev, sec); !ok {
			return fmt.Errorf("pick %d: no data for event %d sector %d", i, ev, sec)
		}
	}
	return nil
}

// Select returns the records to compose in order.
// Invalid explicit picks are logged and replaced by a random selection.
func Select(dict *sector.Dictionary, sel Selection) ([]*sector.Record, error) {
	if dict.Len() == 0 {
		return nil, ErrNoSectors
	}
	l := log.Default().Named("compose.picks")
	if sel.explicit() {
		if err := sel.Validate(dict); err != nil {
			l.Warn("invalid sector selection, using random selection",
				log.ErrorField(err))
		} else {
			return lo.Map(sel.EventIndexes, func(ev, i int) *sector.Record {
				r, _ := dict.Get(ev, sel.Sectors[i])
				return r
			}), nil
		}
	}
	seed := sel.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	order := RandomOrder(dict.Keys(), sel.Count, rand.New(rand.NewPCG(seed, seed>>1)))
	l.Info("random selection", log.Ints("order", order), log.Uint64("seed", seed))
	return lo.Map(order, func(k, _ int) *sector.Record {
		return dict.Records[k]
	}), nil
}

// RandomOrder draws count keys without replacement (count <= 0 or count >
// len(keys): all keys).
func RandomOrder(keys []int, count int, rng *rand.Rand) []int {
	if count <= 0 || count > len(keys) {
		count = len(keys)
	}
	perm := rng.Perm(len(keys))
	ret := make([]int, count)
	for i := range ret {
		ret[i] = keys[perm[i]]
	}
	return ret
}
