package core

import "sort"

// Reconcile computes the links to add and remove so that current becomes
// desired. Both outputs are sorted and free of duplicates; non-positive ids
// are ignored.
func Reconcile(current, desired []int64) (toAdd, toRemove []int64) {
	have := idSet(current)
	want := idSet(desired)
	for id := range want {
		if _, ok := have[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for id := range have {
		if _, ok := want[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	sort.Slice(toAdd, func(i, j int) bool { return toAdd[i] < toAdd[j] })
	sort.Slice(toRemove, func(i, j int) bool { return toRemove[i] < toRemove[j] })
	return toAdd, toRemove
}

func idSet(ids []int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id > 0 {
			out[id] = struct{}{}
		}
	}
	return out
}

// NormalizeIDs returns the sorted distinct positive ids.
func NormalizeIDs(ids []int64) []int64 {
	set := idSet(ids)
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
