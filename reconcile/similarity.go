package reconcile

// Ratio returns a similarity measure for a and b in [0, 1].
//
// It is computed as 2*M/T, where T is the combined length of both strings
// in runes and M is the total size of the matching blocks found by
// repeatedly locating the longest common substring and recursing into the
// unmatched pieces on either side. Two empty strings have ratio 1. The
// measure is the classic difflib SequenceMatcher ratio, without junk
// heuristics.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}

	b2j := make(map[rune][]int, len(rb))
	for j, r := range rb {
		b2j[r] = append(b2j[r], j)
	}

	type region struct {
		alo, ahi, blo, bhi int
	}
	matched := 0
	queue := []region{{0, len(ra), 0, len(rb)}}
	for len(queue) > 0 {
		q := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, size := longestMatch(ra, q.alo, q.ahi, q.blo, q.bhi, b2j)
		if size == 0 {
			continue
		}
		matched += size
		queue = append(queue,
			region{q.alo, i, q.blo, j},
			region{i + size, q.ahi, j + size, q.bhi},
		)
	}

	return 2 * float64(matched) / float64(total)
}

// longestMatch finds the longest block a[i:i+size] == b[j:j+size] with
// alo <= i < i+size <= ahi and blo <= j < j+size <= bhi, preferring the
// earliest such block. b2j maps each rune of b to its ascending positions.
func longestMatch(a []rune, alo, ahi, blo, bhi int, b2j map[rune][]int) (int, int, int) {
	besti, bestj, bestsize := alo, blo, 0

	// j2len[j] is the length of the longest match ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int, len(j2len)+1)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
