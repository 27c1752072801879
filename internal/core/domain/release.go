package domain

import "time"

type ReleaseStatus string

const (
	ReleaseStatusPending   ReleaseStatus = "pending"
	ReleaseStatusPublished ReleaseStatus = "published"
	ReleaseStatusFailed    ReleaseStatus = "failed"
)

type Release struct {
	ID        string
	Branch    string
	Version   string
	GitTag    string
	GitHead   string
	Type      ReleaseType
	Notes     string
	Status    ReleaseStatus
	Revision  int // optimistic locking
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LastRelease struct {
	Version string
	GitTag  string
	GitHead string
}

// IsZero reports whether the branch has never been released.
func (l LastRelease) IsZero() bool {
	return l.Version == ""
}

type NextRelease struct {
	Type    ReleaseType
	Version string
	GitTag  string
	GitHead string
	Notes   string
	Channel string
}

// ReleaseContext is handed to every plugin hook. Hooks may read all fields;
// only the service mutates it between phases.
type ReleaseContext struct {
	RunID         string
	Branch        string
	RepositoryURL string
	CWD           string
	DryRun        bool
	LastRelease   LastRelease
	Commits       []Commit
	NextRelease   NextRelease
	Now           time.Time
}

// TemplateVars returns the values available to ${...} placeholders in
// commands and commit messages.
func (c *ReleaseContext) TemplateVars() map[string]string {
	return map[string]string{
		"branch.name":         c.Branch,
		"lastRelease.version": c.LastRelease.Version,
		"lastRelease.gitTag":  c.LastRelease.GitTag,
		"lastRelease.gitHead": c.LastRelease.GitHead,
		"nextRelease.type":    string(c.NextRelease.Type),
		"nextRelease.version": c.NextRelease.Version,
		"nextRelease.gitTag":  c.NextRelease.GitTag,
		"nextRelease.gitHead": c.NextRelease.GitHead,
		"nextRelease.notes":   c.NextRelease.Notes,
		"nextRelease.channel": c.NextRelease.Channel,
	}
}
