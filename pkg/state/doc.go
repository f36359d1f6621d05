// Package state provides the immutable state container and the pure
// transition functions that drive it.
//
// A [Store] holds exactly one value of an application-defined state type.
// The value is never mutated in place: every change is expressed as an
// [Action] (a pure func(S) S) that the Store applies atomically, replacing
// the old value with the new one.
//
// # Usage
//
//	type Counter struct{ N int }
//
//	store := state.NewStore(Counter{N: 66})
//	defer store.Close()
//
//	store.Apply(func(c Counter) Counter { return Counter{N: c.N + 1} })
//
//	sub := store.Observe(ctx)
//	for c := range sub.C() {
//	    render(c)
//	}
//
// # Ordering
//
// Every subscriber first receives the value current at subscribe time and
// then every later committed value, in commit order, without gaps. Two
// subscribers never disagree on the order of the values they both see.
// Subscribers are buffered independently, so a slow reader never blocks
// Apply.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package state
