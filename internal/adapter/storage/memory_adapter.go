package storage

import (
	"context"
	"sync"

	"github.com/rl1809/packdemo/internal/core/domain"
)

// MemoryAdapter keeps claims and release history in process. It backs the
// CLI when no Redis or MySQL is configured.
type MemoryAdapter struct {
	mu       sync.Mutex
	claims   map[string]struct{}
	releases map[string]domain.Release
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		claims:   make(map[string]struct{}),
		releases: make(map[string]domain.Release),
	}
}

func (m *MemoryAdapter) ClaimRelease(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.claims[key]; ok {
		return false, nil
	}
	m.claims[key] = struct{}{}
	return true, nil
}

func (m *MemoryAdapter) ReleaseClaim(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.claims, key)
	return nil
}

func (m *MemoryAdapter) CreateRelease(ctx context.Context, release domain.Release) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.releases {
		if r.Branch == release.Branch && r.Version == release.Version && r.Status == domain.ReleaseStatusPublished {
			return ErrAlreadyPublished
		}
	}
	m.releases[release.ID] = release
	return nil
}

func (m *MemoryAdapter) GetRelease(ctx context.Context, id string) (*domain.Release, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.releases[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *MemoryAdapter) LatestRelease(ctx context.Context, branch string) (*domain.Release, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var latest *domain.Release
	for _, r := range m.releases {
		if r.Branch != branch || r.Status != domain.ReleaseStatusPublished {
			continue
		}
		if latest == nil || domain.CompareVersions(r.Version, latest.Version) > 0 {
			r := r
			latest = &r
		}
	}
	return latest, nil
}

func (m *MemoryAdapter) UpdateRelease(ctx context.Context, release domain.Release) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.releases[release.ID]
	if !ok || cur.Revision != release.Revision {
		return ErrOptimisticLock
	}
	cur.GitHead = release.GitHead
	cur.Notes = release.Notes
	cur.Status = release.Status
	cur.UpdatedAt = release.UpdatedAt
	cur.Revision++
	m.releases[release.ID] = cur
	return nil
}
