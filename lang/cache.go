package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed templates keyed by the combined hash of their
// source and options.
var globalCache sync.Map

// state tracks the parse of one cached source.
type state struct {
	once sync.Once
	tmpl *Template
	err  error
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(opts optionsKey) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	// Encode relevant options fields
	_ = enc.Encode(opts.maxDepth)
	_ = enc.Encode(opts.compileExprs)

	return xxh3.Hash(buf.Bytes())
}

// ParseReader reads all of r and parses it.
//
// Input is read through an asynchronous read-ahead buffer. When no options
// change parsing behavior the result is cached as by [ParseCached].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Template, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	var temp Template

	applyDefaults(&temp)
	applyOptions(&temp, opts...)

	temp.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	if !temp.opts.isDefault() {
		temp.logger.TraceContext(
			ctx,
			"cache bypass",
			slog.Bool("compile_exprs", temp.opts.compileExprs),
			slog.Int("max_depth", temp.opts.maxDepth),
		)

		return ParseString(ctx, string(data), opts...)
	}

	return ParseCached(ctx, string(data), opts...)
}

// ParseCached parses src, reusing the result of any earlier call with the
// same source and options. Failures are cached as well.
//
// The returned Template is shared and must not be modified. A logger given
// in opts applies only to the first parse of a source.
func ParseCached(
	ctx context.Context,
	src string,
	opts ...Option,
) (*Template, error) {
	var temp Template

	applyDefaults(&temp)
	applyOptions(&temp, opts...)

	// Combine source hash with options hash for cache key uniqueness
	sourceHash := xxh3.HashString(src)
	optsHash := hashOptions(temp.opts)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, cacheHit := globalCache.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrInvalidValueType.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	temp.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		entry.tmpl, entry.err = ParseString(ctx, src, opts...)
		if entry.err != nil {
			entry.err = WrapError(entry.err).With(
				slog.Int("source_length", len(src)),
			)
		}
	})

	return entry.tmpl, entry.err
}

// ClearCache removes all cached templates.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
