// Package search implements the brute-force search for a commit whose hash
// starts with a requested hex prefix. It perturbs the commit's two
// timestamps, never its content, so the result is the same change a human
// would make by re-dating the commit.
package search

import (
	"context"
	"crypto/sha1"
	"encoding"
	"encoding/hex"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jeffrom/forceprefix/model"
)

// Timestamps must render as exactly this many decimal digits so the object
// length baked into the precomputed framing header holds for every probe.
const (
	timestampDigits = 10
	minTimestamp    = 1_000_000_000  // 2001-09-09, first 10-digit unix second
	maxTimestamp    = 10_000_000_000 // 2286-11-20, first 11-digit unix second
)

// Options tune a search. The zero value searches with one goroutine per CPU
// until a match is found.
type Options struct {
	// Workers is the number of goroutines probing each diagonal. 0 means
	// runtime.GOMAXPROCS(0).
	Workers int
	// MaxDiagonals aborts the search with an ExhaustedError after this
	// many diagonals. 0 means keep going until a match turns up.
	MaxDiagonals int64
}

// Engine searches for the author/committer timestamp pair that gives a
// commit object a digest matching a Pattern.
//
// Candidates are enumerated in diagonals: diagonal i holds every pair
// (author+j, committer+i) for j in [0, i], so the committer date moves
// forward one second at a time and the author date never passes it. The
// framing header ("commit <len>\x00") and everything before the author
// timestamp never change across the search, so their digest state is
// computed once and each probe resumes from a restored copy.
type Engine struct {
	pattern *Pattern
	base    int64  // original author timestamp, the origin for both offsets
	mid     []byte // bytes between the two timestamps
	tail    []byte // bytes after the committer timestamp
	state   []byte // marshaled digest state covering the header and head bytes

	workers  int
	maxDiags int64
}

// New validates the commit and precomputes the shared digest state. The
// author timestamp must already render as 10 digits; shorter or longer
// timestamps would change the object length mid-search.
func New(cmt *model.Commit, pattern *Pattern, opts Options) (*Engine, error) {
	if cmt.AuthorTimestamp < minTimestamp || cmt.AuthorTimestamp >= maxTimestamp {
		return nil, fmt.Errorf("search: author timestamp %d is not %d digits wide", cmt.AuthorTimestamp, timestampDigits)
	}
	if cmt.CommitterTimestamp < minTimestamp || cmt.CommitterTimestamp >= maxTimestamp {
		return nil, fmt.Errorf("search: committer timestamp %d is not %d digits wide", cmt.CommitterTimestamp, timestampDigits)
	}

	head, mid, tail := cmt.RenderParts()
	e := &Engine{
		pattern:  pattern,
		base:     cmt.AuthorTimestamp,
		mid:      []byte(mid),
		tail:     []byte(tail),
		workers:  opts.Workers,
		maxDiags: opts.MaxDiagonals,
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}

	size := len(head) + timestampDigits + len(e.mid) + timestampDigits + len(e.tail)
	d := sha1.New()
	header := make([]byte, 0, 32)
	header = append(header, "commit "...)
	header = strconv.AppendInt(header, int64(size), 10)
	header = append(header, 0)
	d.Write(header)
	d.Write([]byte(head))

	state, err := d.(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("search: snapshot digest state: %w", err)
	}
	e.state = state
	return e, nil
}

// Result is a successful search outcome.
type Result struct {
	// AuthorOffset and CommitterOffset are the found perturbation in
	// seconds, both relative to the commit's original author timestamp.
	// AuthorOffset <= CommitterOffset always holds.
	AuthorOffset    int64
	CommitterOffset int64
	// Digest is the commit hash the offsets produce.
	Digest [sha1.Size]byte
	// Attempts counts the hashes computed. Workers stop probing a
	// diagonal early once a match is published, so the count can vary a
	// little between runs of the same search.
	Attempts  uint64
	Diagonals int64
	Elapsed   time.Duration
}

// HexDigest returns the found commit hash as lowercase hex.
func (r *Result) HexDigest() string {
	return hex.EncodeToString(r.Digest[:])
}

// Rate returns hashes per second over the whole search.
func (r *Result) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Attempts) / r.Elapsed.Seconds()
}

// ExhaustedError reports that a search hit its diagonal cap without finding
// a match.
type ExhaustedError struct {
	Diagonals int64
	Attempts  uint64
}

func (e ExhaustedError) Error() string {
	return fmt.Sprintf("search: no match in %d diagonals (%d hashes)", e.Diagonals, e.Attempts)
}

// Run probes diagonals until a match is found, the configured cap is hit, or
// ctx is canceled. Cancellation is observed between diagonals; probes are
// pure computation and never block.
//
// The result is deterministic for a given commit and pattern: the lowest
// matching diagonal wins, and within it the lowest author offset, no matter
// how many workers run or how they are scheduled.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	var attempts atomic.Uint64
	for i := int64(0); ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.maxDiags > 0 && i >= e.maxDiags {
			return nil, ExhaustedError{Diagonals: i, Attempts: attempts.Load()}
		}
		if e.base+i >= maxTimestamp {
			return nil, fmt.Errorf("search: committer timestamp would pass %d digits after %d diagonals", timestampDigits, i)
		}

		j, ok, err := e.sweep(i, &attempts)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		res := &Result{
			AuthorOffset:    j,
			CommitterOffset: i,
			Attempts:        attempts.Load(),
			Diagonals:       i + 1,
			Elapsed:         time.Since(start),
		}
		if err := e.digest(e.base+j, e.base+i, &res.Digest); err != nil {
			return nil, err
		}
		return res, nil
	}
}

// sweep fans one diagonal out across the worker pool and returns the lowest
// matching author offset on it, if any. Worker w owns the stripe
// j = w, w+stride, w+2*stride, ...; every worker publishes its matches into
// best and stops once its next j can no longer beat the published one, which
// makes the lowest match win regardless of scheduling.
func (e *Engine) sweep(diag int64, attempts *atomic.Uint64) (int64, bool, error) {
	workers := e.workers
	if n := diag + 1; n < int64(workers) {
		workers = int(n)
	}

	var best atomic.Int64
	best.Store(-1)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			return e.stripe(diag, int64(w), int64(workers), &best, attempts)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, false, err
	}

	if j := best.Load(); j >= 0 {
		return j, true, nil
	}
	return 0, false, nil
}

// stripe probes a single worker's share of a diagonal. The hot loop does not
// allocate: the digest state restore, the decimal renders, and the digest
// sum all reuse fixed buffers.
func (e *Engine) stripe(diag, first, stride int64, best *atomic.Int64, attempts *atomic.Uint64) error {
	d := sha1.New()
	restore, ok := d.(encoding.BinaryUnmarshaler)
	if !ok {
		return fmt.Errorf("search: %T does not support state restore", d)
	}

	var author [timestampDigits]byte
	var committer [timestampDigits]byte
	var sum [sha1.Size]byte
	cts := strconv.AppendInt(committer[:0], e.base+diag, 10)

	var n uint64
	for j := first; j <= diag; j += stride {
		if b := best.Load(); b >= 0 && b <= j {
			break
		}
		if err := restore.UnmarshalBinary(e.state); err != nil {
			return fmt.Errorf("search: restore digest state: %w", err)
		}
		d.Write(strconv.AppendInt(author[:0], e.base+j, 10))
		d.Write(e.mid)
		d.Write(cts)
		d.Write(e.tail)
		n++
		if e.pattern.Test(d.Sum(sum[:0])) {
			lower(best, j)
		}
	}
	attempts.Add(n)
	return nil
}

// lower publishes j into best unless a lower match is already there.
func lower(best *atomic.Int64, j int64) {
	for {
		cur := best.Load()
		if cur >= 0 && cur <= j {
			return
		}
		if best.CompareAndSwap(cur, j) {
			return
		}
	}
}

// digest computes the full object digest for one timestamp pair.
func (e *Engine) digest(author, committer int64, out *[sha1.Size]byte) error {
	d := sha1.New()
	if err := d.(encoding.BinaryUnmarshaler).UnmarshalBinary(e.state); err != nil {
		return fmt.Errorf("search: restore digest state: %w", err)
	}
	var num [timestampDigits]byte
	d.Write(strconv.AppendInt(num[:0], author, 10))
	d.Write(e.mid)
	d.Write(strconv.AppendInt(num[:0], committer, 10))
	d.Write(e.tail)
	d.Sum(out[:0])
	return nil
}
