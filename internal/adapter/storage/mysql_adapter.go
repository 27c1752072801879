package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/packdemo/internal/core/domain"
)

var (
	ErrOptimisticLock   = errors.New("optimistic lock conflict")
	ErrAlreadyPublished = errors.New("version already published")
)

const releaseColumns = `id, branch, version, git_tag, git_head, release_type, notes, status, revision, created_at, updated_at`

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) CreateRelease(ctx context.Context, release domain.Release) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var published int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM releases
		WHERE branch = ? AND version = ? AND status = ?
		FOR UPDATE`,
		release.Branch, release.Version, domain.ReleaseStatusPublished,
	).Scan(&published)
	if err != nil {
		return fmt.Errorf("check published: %w", err)
	}
	if published > 0 {
		return ErrAlreadyPublished
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO releases (`+releaseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		release.ID, release.Branch, release.Version, release.GitTag, release.GitHead,
		release.Type, release.Notes, release.Status, release.Revision,
		release.CreatedAt, release.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert release: %w", err)
	}

	return tx.Commit()
}

func (m *MySQLAdapter) GetRelease(ctx context.Context, id string) (*domain.Release, error) {
	row := m.db.QueryRowContext(ctx, `SELECT `+releaseColumns+` FROM releases WHERE id = ?`, id)
	return scanRelease(row)
}

func (m *MySQLAdapter) LatestRelease(ctx context.Context, branch string) (*domain.Release, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT `+releaseColumns+`
		FROM releases WHERE branch = ? AND status = ?`,
		branch, domain.ReleaseStatusPublished,
	)
	if err != nil {
		return nil, fmt.Errorf("query releases: %w", err)
	}
	defer rows.Close()

	// Versions do not sort lexically, so the newest is picked in Go.
	var latest *domain.Release
	for rows.Next() {
		r, err := scanRelease(rows)
		if err != nil {
			return nil, err
		}
		if latest == nil || domain.CompareVersions(r.Version, latest.Version) > 0 {
			latest = r
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate releases: %w", err)
	}
	return latest, nil
}

func (m *MySQLAdapter) UpdateRelease(ctx context.Context, release domain.Release) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE releases
		SET git_head = ?, notes = ?, status = ?, revision = revision + 1, updated_at = ?
		WHERE id = ? AND revision = ?`,
		release.GitHead, release.Notes, release.Status, release.UpdatedAt,
		release.ID, release.Revision,
	)
	if err != nil {
		return fmt.Errorf("update release: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrOptimisticLock
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRelease(row rowScanner) (*domain.Release, error) {
	var r domain.Release
	err := row.Scan(&r.ID, &r.Branch, &r.Version, &r.GitTag, &r.GitHead, &r.Type,
		&r.Notes, &r.Status, &r.Revision, &r.CreatedAt, &r.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan release: %w", err)
	}
	return &r, nil
}
