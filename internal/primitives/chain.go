package primitives

// FollowChain walks a linked sequence of indices starting at start,
// calling next to advance and stop to recognize terminal sentinels. It
// guards against cycles with a visited set and returns the indices in
// traversal order, stopping (without error) the moment a repeat is
// seen — the same discipline the registry walker's offset tracker,
// the ESE page-cache loop guard, and the OLE SAT chain walk all need,
// factored out once.
func FollowChain(start int64, stop func(int64) bool, next func(int64) (int64, error)) ([]int64, error) {
	var out []int64
	seen := make(map[int64]bool)
	cur := start
	for !stop(cur) {
		if seen[cur] {
			break
		}
		seen[cur] = true
		out = append(out, cur)
		n, err := next(cur)
		if err != nil {
			return out, err
		}
		cur = n
	}
	return out, nil
}
