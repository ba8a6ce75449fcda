package merge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConflict matches any ConflictError via errors.Is
var ErrConflict = errors.New("merge conflict")

// Conflict is an irreconcilable collision between a change from branch A
// and a change from branch B. Message refers to the branches as [A] and [B].
type Conflict[T comparable] struct {
	A       Change[T]
	B       Change[T]
	Message string
}

func (c Conflict[T]) String() string {
	return fmt.Sprintf("%s (A: %s; B: %s)", c.Message, c.A, c.B)
}

// ConflictError reports every conflict found by a merge. No partial result
// accompanies it.
type ConflictError[T comparable] struct {
	Conflicts []Conflict[T]
}

func (e *ConflictError[T]) Error() string {
	if len(e.Conflicts) == 1 {
		return "merge conflict: " + e.Conflicts[0].String()
	}
	msgs := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		msgs[i] = c.String()
	}
	return fmt.Sprintf("%d merge conflicts: %s", len(e.Conflicts), strings.Join(msgs, "; "))
}

func (e *ConflictError[T]) Is(target error) bool {
	return target == ErrConflict
}
