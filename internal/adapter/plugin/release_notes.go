package plugin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rl1809/packdemo/internal/core/domain"
	"github.com/rl1809/packdemo/internal/port"
)

type noteSection struct {
	commitType string
	title      string
}

var noteSections = []noteSection{
	{"feat", "Features"},
	{"fix", "Bug Fixes"},
	{"perf", "Performance Improvements"},
	{"revert", "Reverts"},
}

// ReleaseNotesGenerator renders conventional-changelog style notes.
type ReleaseNotesGenerator struct{}

func NewReleaseNotesGenerator(opts Options, deps Deps) (port.Plugin, error) {
	preset, err := opts.String("preset", "angular")
	if err != nil {
		return nil, err
	}
	if preset != "angular" && preset != "conventionalcommits" {
		return nil, fmt.Errorf("unsupported preset %q", preset)
	}
	return &ReleaseNotesGenerator{}, nil
}

func (g *ReleaseNotesGenerator) Name() string { return ReleaseNotesName }

func (g *ReleaseNotesGenerator) GenerateNotes(ctx context.Context, rc *domain.ReleaseContext) (string, error) {
	return renderNotes(rc), nil
}

func renderNotes(rc *domain.ReleaseContext) string {
	web := repositoryWebURL(rc.RepositoryURL)
	next := rc.NextRelease

	level := "#"
	if next.Type == domain.ReleaseTypePatch {
		level = "##"
	}
	title := next.Version
	if web != "" && rc.LastRelease.GitTag != "" {
		title = fmt.Sprintf("[%s](%s/compare/%s...%s)", next.Version, web, rc.LastRelease.GitTag, next.GitTag)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s)", level, title, rc.Now.UTC().Format("2006-01-02"))

	grouped := map[string][]domain.ConventionalCommit{}
	var breaking []domain.ConventionalCommit
	for _, c := range rc.Commits {
		cc, ok := domain.ParseConventional(c)
		if !ok {
			continue
		}
		grouped[cc.Type] = append(grouped[cc.Type], cc)
		if cc.Breaking {
			breaking = append(breaking, cc)
		}
	}

	for _, section := range noteSections {
		items := grouped[section.commitType]
		if len(items) == 0 {
			continue
		}
		sortCommits(items)
		fmt.Fprintf(&b, "\n\n### %s\n", section.title)
		for _, cc := range items {
			fmt.Fprintf(&b, "\n* %s%s (%s)", scopePrefix(cc.Scope), cc.Subject, commitRef(web, cc.Hash))
		}
	}

	if len(breaking) > 0 {
		sortCommits(breaking)
		b.WriteString("\n\n### BREAKING CHANGES\n")
		for _, cc := range breaking {
			for _, note := range cc.BreakingNotes {
				fmt.Fprintf(&b, "\n* %s%s", scopePrefix(cc.Scope), note)
			}
		}
	}
	return b.String()
}

func sortCommits(items []domain.ConventionalCommit) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Scope != items[j].Scope {
			return items[i].Scope < items[j].Scope
		}
		return items[i].Subject < items[j].Subject
	})
}

func scopePrefix(scope string) string {
	if scope == "" {
		return ""
	}
	return "**" + scope + ":** "
}

func commitRef(web, hash string) string {
	short := domain.Commit{Hash: hash}.ShortHash()
	if web == "" {
		return short
	}
	return fmt.Sprintf("[%s](%s/commit/%s)", short, web, hash)
}
