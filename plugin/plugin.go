package plugin

import (
	"errors"
	"fmt"
	"strings"

	"merge3/logger"
	"merge3/merge"
	"merge3/text"
	"merge3/types"

	"github.com/neovim/go-client/nvim"
)

// Buffers is the part of the nvim API the buffer merge needs
type Buffers interface {
	BufferLines(buffer nvim.Buffer, start, end int, strict bool) ([][]byte, error)
	SetBufferLines(buffer nvim.Buffer, start, end int, strict bool, replacement [][]byte) error
}

// Handle merges the lines of req. Conflicts are reported in the outcome,
// not as an error; errors mean the request itself was invalid.
func Handle(req types.MergeRequest, opts text.Options) (*types.MergeOutcome, error) {
	defer logger.Trace("plugin.Handle")()

	if req.Mode != "" {
		mode, err := text.ParseMode(req.Mode)
		if err != nil {
			return nil, err
		}
		opts.Mode = mode
	}

	lines, err := mergeLines(req, opts)
	var conflictErr *merge.ConflictError[string]
	switch {
	case errors.As(err, &conflictErr):
		logger.Info("merge request has %d conflicts", len(conflictErr.Conflicts))
		return &types.MergeOutcome{Conflicts: conflictInfos(conflictErr)}, nil
	case err != nil:
		return nil, err
	}
	return &types.MergeOutcome{Lines: lines}, nil
}

func mergeLines(req types.MergeRequest, opts text.Options) ([]string, error) {
	if opts.Mode == text.ModeLines {
		m, err := text.NewMerger(opts)
		if err != nil {
			return nil, err
		}
		return m.Merge(req.Ancestor, req.A, req.B)
	}

	merged, err := text.Merge(
		strings.Join(req.Ancestor, "\n"),
		strings.Join(req.A, "\n"),
		strings.Join(req.B, "\n"),
		opts,
	)
	if err != nil {
		return nil, err
	}
	return strings.Split(merged, "\n"), nil
}

func conflictInfos(err *merge.ConflictError[string]) []types.ConflictInfo {
	infos := make([]types.ConflictInfo, len(err.Conflicts))
	for i, c := range err.Conflicts {
		infos[i] = types.ConflictInfo{
			Message: c.Message,
			A:       text.DescribeChange(c.A),
			B:       text.DescribeChange(c.B),
		}
	}
	return infos
}

// MergeBuffers merges three buffers and replaces the content of req.Target
// with the result. The target is left untouched on conflict.
func MergeBuffers(b Buffers, req types.BufferMergeRequest, opts text.Options) (*types.MergeOutcome, error) {
	var lines [3][]string
	for i, id := range []int{req.Ancestor, req.A, req.B} {
		raw, err := b.BufferLines(nvim.Buffer(id), 0, -1, false)
		if err != nil {
			return nil, fmt.Errorf("failed to read buffer %d: %w", id, err)
		}
		lines[i] = make([]string, len(raw))
		for j, line := range raw {
			lines[i][j] = string(line)
		}
	}

	opts.Mode = text.ModeLines
	outcome, err := Handle(types.MergeRequest{Ancestor: lines[0], A: lines[1], B: lines[2]}, opts)
	if err != nil || outcome.HasConflicts() {
		return outcome, err
	}

	replacement := make([][]byte, len(outcome.Lines))
	for i, line := range outcome.Lines {
		replacement[i] = []byte(line)
	}
	if err := b.SetBufferLines(nvim.Buffer(req.Target), 0, -1, false, replacement); err != nil {
		return nil, fmt.Errorf("failed to write buffer %d: %w", req.Target, err)
	}
	logger.Debug("wrote %d merged lines to buffer %d", len(replacement), req.Target)
	return outcome, nil
}

// Register exposes the merge handlers on n:
//
//	merge3_merge(ancestor, a, b, mode)        -> outcome
//	merge3_merge_buffers(target, ancestor, a, b) -> outcome
func Register(n *nvim.Nvim, opts text.Options) error {
	err := n.RegisterHandler("merge3_merge", func(_ *nvim.Nvim, ancestor, a, b []string, mode string) (map[string]any, error) {
		outcome, err := Handle(types.MergeRequest{Ancestor: ancestor, A: a, B: b, Mode: mode}, opts)
		if err != nil {
			logger.Error("merge3_merge: %v", err)
			return nil, err
		}
		return outcome.ToLuaFormat(), nil
	})
	if err != nil {
		return fmt.Errorf("failed to register merge3_merge: %w", err)
	}

	err = n.RegisterHandler("merge3_merge_buffers", func(v *nvim.Nvim, target, ancestor, a, b int) (map[string]any, error) {
		req := types.BufferMergeRequest{Target: target, Ancestor: ancestor, A: a, B: b}
		outcome, err := MergeBuffers(v, req, opts)
		if err != nil {
			logger.Error("merge3_merge_buffers: %v", err)
			return nil, err
		}
		return outcome.ToLuaFormat("target", target), nil
	})
	if err != nil {
		return fmt.Errorf("failed to register merge3_merge_buffers: %w", err)
	}
	return nil
}
