package dynarray

// quicksort sorts s[head:tail+1] with a Hoare partition around the last
// element. It recurses into the smaller partition and loops on the larger
// one, so recursion depth stays within O(log n) whatever the input order.
// It returns the deepest recursion level reached, this call being depth.
func quicksort[T any](s []T, head, tail int, cmp func(x, y T) int, depth int) int {
	deepest := depth
	for head < tail {
		h, t := head-1, tail
		v := s[tail]
		for {
			h++
			for h < t && cmp(s[h], v) < 0 {
				h++
			}
			t--
			for h < t && cmp(v, s[t]) < 0 {
				t--
			}
			if h >= t {
				break
			}
			s[h], s[t] = s[t], s[h]
		}
		s[h], s[tail] = s[tail], s[h]

		var d int
		if t-head < tail-h-1 {
			d = quicksort(s, head, t, cmp, depth+1)
			head = h + 1
		} else {
			d = quicksort(s, h+1, tail, cmp, depth+1)
			tail = t
		}
		deepest = max(deepest, d)
	}
	return deepest
}

// insertionSort is a stable sort: an element only moves past neighbours
// that compare strictly greater.
func insertionSort[T any](s []T, cmp func(x, y T) int) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && cmp(s[j], v) > 0 {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}
