package types

// HasDuplicate reports the first repeated value in ids.
func HasDuplicate(ids []int) (dup int, found bool) {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, found = seen[id]; found {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return 0, false
}
