package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"merge3/logger"

	"github.com/andybalholm/brotli"
	"golang.org/x/sync/errgroup"
)

const (
	// Stdio names standard input for Read and standard output for Write
	Stdio = "-"
	// CompressedSuffix marks brotli-compressed files
	CompressedSuffix = ".br"
	// CompressionLevel is the brotli quality used when writing (1 favours speed)
	CompressionLevel = 1
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func compressed(path string) bool {
	return strings.HasSuffix(path, CompressedSuffix)
}

// Read returns the content of path. Files ending in .br are decompressed.
func Read(path string) (string, error) {
	if path == Stdio {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed(path) {
		r = brotli.NewReader(f)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	logger.Debug("read %s (%d bytes)", path, len(data))
	return string(data), nil
}

// Write stores content at path, compressing it when path ends in .br.
func Write(path, content string) error {
	if path == Stdio {
		if _, err := io.WriteString(stdout, content); err != nil {
			return fmt.Errorf("failed to write stdout: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := writeTo(f, path, content); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	logger.Debug("wrote %s (%d bytes)", path, len(content))
	return nil
}

func writeTo(w io.Writer, path, content string) error {
	if !compressed(path) {
		if _, err := io.WriteString(w, content); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}

	brotliWriter := brotli.NewWriterLevel(w, CompressionLevel)
	if _, err := io.WriteString(brotliWriter, content); err != nil {
		return fmt.Errorf("failed to compress %s: %w", path, err)
	}
	if err := brotliWriter.Close(); err != nil {
		return fmt.Errorf("failed to close brotli writer: %w", err)
	}
	return nil
}

// ReadAll reads every path concurrently and returns the contents in order.
// Standard input may be named at most once.
func ReadAll(ctx context.Context, paths ...string) ([]string, error) {
	stdinUses := 0
	for _, p := range paths {
		if p == Stdio {
			stdinUses++
		}
	}
	if stdinUses > 1 {
		return nil, fmt.Errorf("standard input named %d times", stdinUses)
	}

	contents := make([]string, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := Read(p)
			if err != nil {
				return err
			}
			contents[i] = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contents, nil
}
