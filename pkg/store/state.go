package store

// State is the container's state: a single mapping from string keys to
// arbitrary values, the merged union of every registered slice.
//
// A State returned by GetState is a snapshot. The container never mutates
// a map it has handed out; every mutation replaces the internal state with
// a fresh merge, so two snapshots taken around a dispatch are distinct map
// references even when their contents are equal.
type State map[string]any

// ActionFunc is a pure transformation from (current state, payload) to a
// partial state. The returned map contains only the keys the action wants
// to change; Dispatch shallow-merges it into the current state.
//
// Action functions must not mutate the state they receive.
type ActionFunc func(current State, payload any) State

// ActionTable maps action identifiers to their action functions. Slices
// contribute their tables via Store.RegisterSlice.
type ActionTable map[string]ActionFunc

// Merge returns a new State containing every key of dst overlaid with
// every key of src. Keys present in both take src's value. The merge is
// one level deep: values are copied by reference, never merged recursively.
//
// Merge always allocates a fresh map, even when src is empty. The store
// relies on this for reference-equality change detection: state snapshots
// from before and after a dispatch never alias.
func Merge(dst, src State) State {
	out := make(State, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}
