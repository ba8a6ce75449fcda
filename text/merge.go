package text

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"merge3/logger"
	"merge3/merge"
)

// Diff strategy names accepted in Options.Diff
const (
	DiffOptimal = "optimal"
	DiffDMP     = "dmp"
)

// MaxQuotedLength caps how much of a change value a conflict report shows
const MaxQuotedLength = 60

// Options configures a text merge. Start from DefaultOptions; the zero value
// treats every exact delete/insert pair as a move.
type Options struct {
	Mode            Mode
	Diff            string
	DiffTimeout     time.Duration
	MaxMoveDistance float64
	MinMoveLength   int
	NoMoves         bool
}

// DefaultOptions returns options matching the engine defaults
func DefaultOptions() Options {
	return Options{
		Mode:            ModeLines,
		Diff:            DiffOptimal,
		MaxMoveDistance: merge.DefaultMaxMoveDistance,
		MinMoveLength:   merge.DefaultMinMoveLength,
	}
}

// NewMerger builds a string-token merger for opts
func NewMerger(opts Options) (*merge.Merger[string], error) {
	var cfg merge.Config[string]

	switch opts.Diff {
	case "", DiffOptimal:
		cfg.Diff = merge.OptimalDiff[string]{}
	case DiffDMP:
		cfg.Diff = merge.DiffMatchPatch[string]{Timeout: opts.DiffTimeout}
	default:
		return nil, fmt.Errorf("unknown diff strategy %q", opts.Diff)
	}

	switch {
	case opts.NoMoves:
		cfg.Moves = merge.NoMoves[string]{}
	case opts.Mode == ModeLines:
		if opts.MaxMoveDistance < 0 || opts.MaxMoveDistance > 1 {
			return nil, fmt.Errorf("max move distance %v must be within [0, 1]", opts.MaxMoveDistance)
		}
		cfg.Moves = LineMoves{MaxDistance: opts.MaxMoveDistance, MinLines: opts.MinMoveLength}
	default:
		moves, err := merge.NewEditDistanceMoves[string](opts.MaxMoveDistance, opts.MinMoveLength)
		if err != nil {
			return nil, err
		}
		cfg.Moves = moves
	}
	return merge.New(cfg), nil
}

// Merge tokenizes the three texts, merges them and joins the result.
func Merge(ancestor, a, b string, opts Options) (string, error) {
	m, err := NewMerger(opts)
	if err != nil {
		return "", err
	}

	logger.Debug("merging %d/%d/%d bytes as %s", len(ancestor), len(a), len(b), opts.Mode)
	merged, err := m.Merge(Split(ancestor, opts.Mode), Split(a, opts.Mode), Split(b, opts.Mode))
	if err != nil {
		return "", err
	}
	return Join(merged), nil
}

// DescribeChange renders a change with a quoted, truncated value
func DescribeChange(c merge.Change[string]) string {
	switch c.Kind {
	case merge.KindDelete:
		return fmt.Sprintf("delete %s %s", c.Delete.AncestorRange, quote(c.Delete.Value))
	case merge.KindInsert:
		return fmt.Sprintf("insert at %d %s", c.Insert.AncestorPosition, quote(c.Insert.Value))
	case merge.KindMove:
		return fmt.Sprintf("move %s to %d %s", c.Move.From.AncestorRange, c.Move.To.AncestorPosition, quote(c.Move.To.Value))
	default:
		return c.String()
	}
}

func quote(tokens []string) string {
	s := Join(tokens)
	if r := []rune(s); len(r) > MaxQuotedLength {
		s = string(r[:MaxQuotedLength]) + "..."
	}
	return strconv.Quote(s)
}

// FormatConflicts renders a conflict report for err, one conflict per block.
// Errors that are not merge conflicts are returned as their message.
func FormatConflicts(err error) string {
	var conflictErr *merge.ConflictError[string]
	if !errors.As(err, &conflictErr) {
		return err.Error()
	}

	var sb strings.Builder
	for i, c := range conflictErr.Conflicts {
		fmt.Fprintf(&sb, "conflict %d: %s\n", i+1, c.Message)
		fmt.Fprintf(&sb, "  A: %s\n", DescribeChange(c.A))
		fmt.Fprintf(&sb, "  B: %s\n", DescribeChange(c.B))
	}
	return sb.String()
}
