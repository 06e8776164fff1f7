// Package chain turns a flat list of sentence-like items into the ordered
// consecutive chains they form.
package chain

// path is one chain under construction. Forks copy it, so a path is never
// shared between two chains.
type path[T any, K comparable] struct {
	items []T
	seen  map[K]bool
}

func (p path[T, K]) fork(next T, key K) path[T, K] {
	items := make([]T, len(p.items), len(p.items)+1)
	copy(items, p.items)
	seen := make(map[K]bool, len(p.seen)+1)
	for k := range p.seen {
		seen[k] = true
	}
	seen[key] = true
	return path[T, K]{items: append(items, next), seen: seen}
}

// Build returns every maximal chain that starts at an item without a
// predecessor. keyOf gives an item's identity and predecessorOf the identity
// it runs consecutively to, if any.
//
// When more than one item names the same predecessor the chain forks: the
// first follower (in input order) continues the current chain and each
// further follower starts a new chain copied from the path so far. A key
// already on the path is never revisited, so malformed input that loops back
// on itself ends the path instead of recursing. Followers that cannot be
// reached from any base are not emitted; see Unreached.
//
// Chains are returned in base input order, each base's forks following it in
// the order they were discovered.
func Build[T any, K comparable](items []T, keyOf func(T) K, predecessorOf func(T) (K, bool)) [][]T {
	var bases []T
	followers := make(map[K][]T)
	for _, item := range items {
		if pred, ok := predecessorOf(item); ok {
			followers[pred] = append(followers[pred], item)
			continue
		}
		bases = append(bases, item)
	}

	var chains [][]T
	for _, base := range bases {
		queue := []path[T, K]{{items: []T{base}, seen: map[K]bool{keyOf(base): true}}}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			for {
				last := current.items[len(current.items)-1]
				next := followers[keyOf(last)]
				if len(next) == 0 {
					break
				}
				for _, extra := range next[1:] {
					key := keyOf(extra)
					if current.seen[key] {
						continue
					}
					queue = append(queue, current.fork(extra, key))
				}
				key := keyOf(next[0])
				if current.seen[key] {
					break
				}
				current.seen[key] = true
				current.items = append(current.items, next[0])
			}
			chains = append(chains, current.items)
		}
	}
	return chains
}

// Unreached lists the items that appear in none of the chains, in input
// order. These are followers whose predecessor is missing or only reachable
// through a cycle.
func Unreached[T any, K comparable](items []T, chains [][]T, keyOf func(T) K) []T {
	reached := make(map[K]bool)
	for _, c := range chains {
		for _, item := range c {
			reached[keyOf(item)] = true
		}
	}
	var out []T
	for _, item := range items {
		if !reached[keyOf(item)] {
			out = append(out, item)
		}
	}
	return out
}
