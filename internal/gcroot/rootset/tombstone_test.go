package rootset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// Randomized interleaving of deferred removals against an in-progress scan:
// tombstoning any entry while the traversal is live (the visited one or one
// not yet reached) must never corrupt the set, and every removed address
// must be absent once the traversals settle.
func TestRandomizedRemoveDuringScan(t *testing.T) {
	const addrs = 200
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 20; round++ {
		s := New()
		all := make([]uintptr, addrs)
		for i := range all {
			all[i] = uintptr(i+1) * 8
			s.Insert(all[i])
		}

		removed := make(map[uintptr]bool)
		visited := make(map[uintptr]int)
		s.Scan(func(addr uintptr) {
			visited[addr]++
			// Tombstone a few arbitrary addresses mid-traversal,
			// sometimes the one being visited.
			for k := 0; k < 2; k++ {
				victim := all[rng.Intn(addrs)]
				s.Remove(victim, true)
				removed[victim] = true
			}
		})

		for addr, n := range visited {
			require.Equal(t, 1, n, "round %d: %#x visited %d times", round, addr, n)
		}

		// A second scan reaps whatever the first one could not, and must
		// visit exactly the survivors.
		survivors := make(map[uintptr]bool)
		s.Scan(func(addr uintptr) {
			require.False(t, survivors[addr], "round %d: duplicate visit of %#x", round, addr)
			survivors[addr] = true
		})

		for _, addr := range all {
			if removed[addr] {
				_, ok := s.Find(addr)
				require.False(t, ok, "round %d: removed %#x still has an entry", round, addr)
				require.False(t, survivors[addr], "round %d: removed %#x was revisited", round, addr)
			} else {
				isPresent, ok := s.Find(addr)
				require.True(t, ok && isPresent, "round %d: kept %#x lost", round, addr)
				require.True(t, survivors[addr], "round %d: kept %#x not visited", round, addr)
			}
		}
		require.Equal(t, addrs-len(removed), s.Len())
	}
}
