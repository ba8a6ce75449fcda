package merge

// OpKind is the kind of a single-element edit operation
type OpKind int

const (
	OpDelete OpKind = iota
	OpInsert
)

// Operation is a single-element edit recorded at an ancestor index.
// Insertions are spliced in before ancestor[Index].
type Operation struct {
	Index int
	Kind  OpKind
}

// distanceTable holds d[i][j], the edit distance between from[i:] and to[j:].
type distanceTable struct {
	cols  int
	cells []int
}

func (t distanceTable) at(i, j int) int {
	return t.cells[i*t.cols+j]
}

func (t distanceTable) set(i, j, v int) {
	t.cells[i*t.cols+j] = v
}

// buildTable fills the table backward from d[n][m] = 0.
func buildTable[T any](from, to []T, eq func(a, b T) bool, allowReplace bool) distanceTable {
	n, m := len(from), len(to)
	t := distanceTable{cols: m + 1, cells: make([]int, (n+1)*(m+1))}

	for i := 0; i <= n; i++ {
		t.set(i, m, n-i)
	}
	for j := 0; j <= m; j++ {
		t.set(n, j, m-j)
	}

	for j := m - 1; j >= 0; j-- {
		for i := n - 1; i >= 0; i-- {
			if eq(from[i], to[j]) {
				t.set(i, j, t.at(i+1, j+1))
				continue
			}
			best := min(t.at(i+1, j), t.at(i, j+1))
			if allowReplace {
				best = min(best, t.at(i+1, j+1))
			}
			t.set(i, j, best+1)
		}
	}
	return t
}

func equal[T comparable](a, b T) bool {
	return a == b
}

// DistanceFunc returns the edit distance between from and to using eq to
// compare elements. Without allowReplace a substitution costs a delete plus
// an insert.
func DistanceFunc[T any](from, to []T, eq func(a, b T) bool, allowReplace bool) int {
	return buildTable(from, to, eq, allowReplace).at(0, 0)
}

// Distance returns the edit distance between from and to
func Distance[T comparable](from, to []T, allowReplace bool) int {
	return DistanceFunc(from, to, equal[T], allowReplace)
}

// NormalizedDistance scales Distance into [0, 1]: by max(n, m) with
// replacement allowed, by n+m without. Two empty sequences have distance 0.
func NormalizedDistance[T comparable](from, to []T, allowReplace bool) float64 {
	denominator := len(from) + len(to)
	if allowReplace {
		denominator = max(len(from), len(to))
	}
	if denominator == 0 {
		return 0
	}
	return float64(Distance(from, to, allowReplace)) / float64(denominator)
}

// Operations returns a minimal ordered list of single-element insertions and
// deletions turning from into to. Replacement is never used, and ties between
// an insertion and a deletion go to the deletion.
func Operations[T any](from, to []T, eq func(a, b T) bool) []Operation {
	d := buildTable(from, to, eq, false)
	n, m := len(from), len(to)

	var ops []Operation
	i, j := 0, 0
	for i != n || j != m {
		switch {
		case i == n:
			ops = append(ops, Operation{Index: i, Kind: OpInsert})
			j++
		case j == m:
			ops = append(ops, Operation{Index: i, Kind: OpDelete})
			i++
		case eq(from[i], to[j]):
			i++
			j++
		case d.at(i+1, j) <= d.at(i, j+1):
			ops = append(ops, Operation{Index: i, Kind: OpDelete})
			i++
		default:
			ops = append(ops, Operation{Index: i, Kind: OpInsert})
			j++
		}
	}
	return ops
}
