package catalog

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/selim/opphub/internal/models"
	"github.com/selim/opphub/internal/upstream"
)

// Lister fetches raw records for one catalog family. *upstream.Client
// satisfies it; tests substitute fakes.
type Lister interface {
	List(ctx context.Context, kind models.Kind, q upstream.Query) ([]upstream.Record, error)
}

// Pipeline owns the fetched working set for one catalog family and drives
// fetch -> normalize -> refine -> sort -> paginate for it. One parameterized
// instance per family replaces the three near-identical page
// implementations this service consolidates.
type Pipeline struct {
	kind     models.Kind
	source   Lister
	pageSize int

	mu       sync.Mutex
	seq      uint64
	inFlight int
	records  []models.Opportunity
	lastErr  error
}

func NewPipeline(kind models.Kind, source Lister, pageSize int) *Pipeline {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pipeline{kind: kind, source: source, pageSize: pageSize}
}

// Refresh fetches with the server-delegated subset of the filters,
// normalizes the response, and returns it to the caller. Every dispatch is
// stamped with a monotonically increasing sequence number; only the latest
// dispatched response commits to the shared working set, so a slow early
// response can never overwrite a fresher one. A superseded caller still
// gets the records fetched for its own query, they just never become the
// committed set another caller could observe.
//
// On fetch failure by the latest dispatch, the working set is cleared and
// the error is both retained and returned: callers can tell "upstream
// failed" apart from "no results".
func (p *Pipeline) Refresh(ctx context.Context, f Filters) ([]models.Opportunity, error) {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.inFlight++
	p.mu.Unlock()

	reqID := uuid.New().String()[:8]
	raw, err := p.source.List(ctx, p.kind, f.Query())

	var next []models.Opportunity
	if err == nil {
		next = make([]models.Opportunity, 0, len(raw))
		for _, r := range raw {
			next = append(next, Normalize(r, p.kind))
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight--

	if err != nil {
		log.Printf("[refresh %s] %s: fetch failed: %v", reqID, p.kind, err)
		if seq == p.seq {
			p.records = nil
			p.lastErr = err
		}
		return nil, err
	}

	if seq != p.seq {
		log.Printf("[refresh %s] %s: stale response not committed (seq %d, latest %d)", reqID, p.kind, seq, p.seq)
		return next, nil
	}

	p.records = next
	p.lastErr = nil
	return snapshot(p.records), nil
}

// Current returns the committed working set without a re-fetch, for filter
// changes that are resolved purely locally.
func (p *Pipeline) Current() []models.Opportunity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return snapshot(p.records)
}

// Loading reports whether any refresh is still in flight.
func (p *Pipeline) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight > 0
}

// Err returns the error of the last committed refresh, nil after a success.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// View runs the local stages over a fetched set: refine with the non-server
// filters, sort, then slice out the requested page.
func View(items []models.Opportunity, f Filters, key SortKey, size, page int, now time.Time) Page {
	refined := f.Apply(items, now)
	Sort(refined, key)
	return Paginate(refined, size, page)
}

func snapshot(items []models.Opportunity) []models.Opportunity {
	out := make([]models.Opportunity, len(items))
	copy(out, items)
	return out
}
