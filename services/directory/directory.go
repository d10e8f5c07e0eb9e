package directory

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"recruitmeet/models"
	"recruitmeet/services/backendapi"
	"recruitmeet/utils"

	"go.uber.org/zap"
)

// defaultPageSize is the bulk prefetch size; filtering is local.
const defaultPageSize = 100

// maxSearchResults caps a single search response.
const maxSearchResults = 50

// Directory holds the per-session candidate snapshot and answers local
// substring searches over it. The snapshot is read-only once loaded and is
// not shared across sessions.
type Directory interface {
	Load(ctx context.Context, sessionID, token string) error
	Search(sessionID, term string) []models.Candidate
	Forget(sessionID string)
}

// DefaultDirectory is the production implementation backed by the backend's
// suggestion endpoint.
type DefaultDirectory struct {
	Backend  backendapi.Client
	PageSize int

	mu        sync.RWMutex
	snapshots map[string][]models.Candidate
}

// NewDefaultDirectory builds a directory over the given backend client.
func NewDefaultDirectory(backend backendapi.Client) *DefaultDirectory {
	return &DefaultDirectory{
		Backend:   backend,
		PageSize:  defaultPageSize,
		snapshots: make(map[string][]models.Candidate),
	}
}

// Load fetches the candidate list once per session. Repeat calls with a
// populated snapshot, or calls without a token, return immediately with no
// network traffic.
func (d *DefaultDirectory) Load(ctx context.Context, sessionID, token string) error {
	if token == "" {
		return nil
	}
	d.mu.RLock()
	_, loaded := d.snapshots[sessionID]
	d.mu.RUnlock()
	if loaded {
		return nil
	}

	items, err := d.Backend.ListCandidates(ctx, sessionID, token, d.PageSize)
	if err != nil {
		return err
	}
	candidates := make([]models.Candidate, 0, len(items))
	for i := range items {
		candidates = append(candidates, items[i].Resolve())
	}

	d.mu.Lock()
	d.snapshots[sessionID] = candidates
	d.mu.Unlock()

	utils.GetLogger().Debug("candidate directory loaded",
		zap.String("sessionId", sessionID), zap.Int("count", len(candidates)))
	return nil
}

// Search runs a case-insensitive, Turkish-aware substring match over the
// resolved display names. An empty term yields an empty result; matches are
// capped at 50.
func (d *DefaultDirectory) Search(sessionID, term string) []models.Candidate {
	if term == "" {
		return nil
	}
	folded := foldTurkish(term)

	d.mu.RLock()
	defer d.mu.RUnlock()

	var matches []models.Candidate
	for _, c := range d.snapshots[sessionID] {
		if strings.Contains(foldTurkish(c.FullName), folded) {
			matches = append(matches, c)
			if len(matches) == maxSearchResults {
				break
			}
		}
	}
	return matches
}

// Forget drops the session's snapshot (logout, or forced refresh).
func (d *DefaultDirectory) Forget(sessionID string) {
	d.mu.Lock()
	delete(d.snapshots, sessionID)
	d.mu.Unlock()
}

// foldTurkish lowercases with Turkish casing rules, where dotted and dotless
// I fold differently from ASCII ('İ'→'i', 'I'→'ı').
func foldTurkish(s string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, s)
}
