package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// SourceFiles reads a list of template sources in order.
type SourceFiles interface {
	io.Reader
	io.Closer
	// Names returns the sources in reading order, stdin as "-".
	Names() []string
}

type sourceFiles struct {
	io.Reader

	files []*os.File
	names []string
}

// Names implements [SourceFiles].
func (s *sourceFiles) Names() []string { return s.names }

// Close closes every opened file.
func (s *sourceFiles) Close() error {
	var first error

	for _, f := range s.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens the given template sources for reading as one stream.
//
// Sources are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader,
// placed last so it reads after all regular files. Consecutive sources are
// separated by a newline so that a trailing comment cannot run into the
// next source. An empty list reads stdin.
func openSources(sources []string) (SourceFiles, error) {
	if len(sources) == 0 {
		sources = []string{stdinSource}
	}

	var (
		srcs     sourceFiles
		readers  []io.Reader
		hasStdin bool
	)

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, stdinOK := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			hasStdin = true

			continue
		}

		file, key, err := openUniqueFile(src, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, ErrSource.Wrap(err).With(sourceAttr(src))
		}

		if file == nil {
			continue
		}

		// Stdin may also be named as a file, such as /dev/stdin.
		if stdinOK && key == stdinKey {
			_ = file.Close()
			hasStdin = true

			continue
		}

		srcs.files = append(srcs.files, file)
		srcs.names = append(srcs.names, src)
	}

	for i, f := range srcs.files {
		if i > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}

		readers = append(readers, f)
	}

	if hasStdin {
		if len(readers) > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}

		readers = append(readers, os.Stdin)
		srcs.names = append(srcs.names, stdinSource)
	}

	srcs.Reader = io.MultiReader(readers...)

	return &srcs, nil
}

// openUniqueFile opens the file at path unless a file with the same identity
// was seen before, in which case it returns a nil file.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, fileKey, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
