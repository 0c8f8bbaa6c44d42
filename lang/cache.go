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

// registry maps a cache key (source hash combined with options hash) to the
// parse state of that source.
var registry sync.Map

// state holds the one-time parse result of a source.
type state struct {
	once  sync.Once
	sheet *Stylesheet
	err   error
}

// hashOptions encodes the result-affecting options with gob and hashes the
// encoding with xxh3.
func hashOptions(key optionsKey) uint64 {
	var buf bytes.Buffer

	_ = gob.NewEncoder(&buf).Encode(key)

	return xxh3.Hash(buf.Bytes())
}

// ParseReader reads all of r and parses it like [ParseString].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Stylesheet, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return parseCached(ctx, data, cfg)
}

// ParseString parses source, caching the result by content and options.
// Identical sources parsed with equivalent options share one Stylesheet,
// which callers must treat as read-only.
func ParseString(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Stylesheet, error) {
	return parseCached(ctx, []byte(source), makeConfig(opts...))
}

func parseCached(ctx context.Context, src []byte, cfg config) (*Stylesheet, error) {
	sourceHash := xxh3.Hash(src)
	optsHash := hashOptions(cfg.key)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, hit := registry.LoadOrStore(key, new(state))

	st, ok := value.(*state)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid cache entry type"))
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit),
	)

	st.once.Do(func() {
		st.sheet, st.err = parse(ctx, NewLexer(src), cfg)
		if st.err != nil {
			st.err = WrapError(st.err).
				With(slog.Int("source_length", len(src)))
		}
	})

	return st.sheet, st.err
}

// ClearCache discards all cached parse results.
func ClearCache() {
	registry.Clear()
}

// CacheLen reports the number of cached parse results.
func CacheLen() int {
	n := 0

	registry.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}
