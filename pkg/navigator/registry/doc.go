// Package registry provides a mount-ordered, thread-safe table of values
// indexed by key.
//
// A navigation session uses it as the single-writer, multi-reader index of
// mounted stacks: stacks are mounted and unmounted by the UI lifecycle, while
// the action engine and observers resolve peers by id without holding
// references to them.
//
// # Basic Usage
//
//	r := registry.New[string, *Stack]()
//	r.Mount("home", home)
//	r.Mount("settings", settings)
//
//	s, ok := r.Lookup("home")
//
// # Ordering
//
// Values and Filter report entries in mount order. Unmounting a key and
// mounting it again moves it to the end.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Filter evaluates its predicate
// over a copy, so the predicate may mount or unmount entries.
package registry
