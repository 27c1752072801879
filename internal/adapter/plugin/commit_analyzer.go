package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rl1809/packdemo/internal/core/domain"
	"github.com/rl1809/packdemo/internal/port"
)

var skipMarkers = []string{"[skip release]", "[release skip]"}

type releaseRule struct {
	Type     string
	Scope    string
	Breaking bool
	Release  domain.ReleaseType
}

func (r releaseRule) matches(cc domain.ConventionalCommit) bool {
	if r.Breaking && !cc.Breaking {
		return false
	}
	if r.Type != "" && r.Type != cc.Type {
		return false
	}
	if r.Scope != "" && r.Scope != cc.Scope {
		return false
	}
	return true
}

// angular preset
var defaultReleaseRules = []releaseRule{
	{Breaking: true, Release: domain.ReleaseTypeMajor},
	{Type: "revert", Release: domain.ReleaseTypePatch},
	{Type: "feat", Release: domain.ReleaseTypeMinor},
	{Type: "fix", Release: domain.ReleaseTypePatch},
	{Type: "perf", Release: domain.ReleaseTypePatch},
}

// CommitAnalyzer derives the release type from conventional commit messages.
type CommitAnalyzer struct {
	rules  []releaseRule
	logger *slog.Logger
}

func NewCommitAnalyzer(opts Options, deps Deps) (port.Plugin, error) {
	preset, err := opts.String("preset", "angular")
	if err != nil {
		return nil, err
	}
	if preset != "angular" && preset != "conventionalcommits" {
		return nil, fmt.Errorf("unsupported preset %q", preset)
	}
	rules, err := parseReleaseRules(opts["releaseRules"])
	if err != nil {
		return nil, err
	}
	return &CommitAnalyzer{rules: rules, logger: deps.Logger}, nil
}

func (a *CommitAnalyzer) Name() string { return CommitAnalyzerName }

func (a *CommitAnalyzer) AnalyzeCommits(ctx context.Context, rc *domain.ReleaseContext) (domain.ReleaseType, error) {
	result := domain.ReleaseTypeNone
	for _, c := range rc.Commits {
		if skipped(c.Message) {
			a.logger.Debug("skipping commit", "hash", c.ShortHash())
			continue
		}
		cc, ok := domain.ParseConventional(c)
		if !ok {
			a.logger.Debug("commit is not conventional", "hash", c.ShortHash(), "subject", c.Subject())
			continue
		}
		t := a.analyze(cc)
		a.logger.Debug("analyzed commit", "hash", c.ShortHash(), "type", cc.Type, "release", t)
		result = result.Max(t)
		if result == domain.ReleaseTypeMajor {
			break
		}
	}
	a.logger.Info("analysis of commits complete", "commits", len(rc.Commits), "release", result)
	return result, nil
}

// analyze applies the custom rules first; the preset only decides when no
// custom rule matched.
func (a *CommitAnalyzer) analyze(cc domain.ConventionalCommit) domain.ReleaseType {
	matched := false
	t := domain.ReleaseTypeNone
	for _, r := range a.rules {
		if r.matches(cc) {
			matched = true
			t = t.Max(r.Release)
		}
	}
	if matched {
		return t
	}
	for _, r := range defaultReleaseRules {
		if r.matches(cc) {
			t = t.Max(r.Release)
		}
	}
	return t
}

func skipped(message string) bool {
	for _, m := range skipMarkers {
		if strings.Contains(message, m) {
			return true
		}
	}
	return false
}

func parseReleaseRules(raw any) ([]releaseRule, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("option releaseRules: expected list, got %T", raw)
	}
	rules := make([]releaseRule, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("option releaseRules[%d]: expected mapping, got %T", i, item)
		}
		o := Options(m)
		var rule releaseRule
		var err error
		if rule.Type, err = o.String("type", ""); err != nil {
			return nil, fmt.Errorf("releaseRules[%d]: %w", i, err)
		}
		if rule.Scope, err = o.String("scope", ""); err != nil {
			return nil, fmt.Errorf("releaseRules[%d]: %w", i, err)
		}
		if rule.Breaking, err = o.Bool("breaking", false); err != nil {
			return nil, fmt.Errorf("releaseRules[%d]: %w", i, err)
		}
		switch rel := m["release"].(type) {
		case string:
			rule.Release = domain.ReleaseType(rel)
			if rule.Release == domain.ReleaseTypeNone || !rule.Release.Valid() {
				return nil, fmt.Errorf("releaseRules[%d]: unknown release %q", i, rel)
			}
		case bool:
			if rel {
				return nil, fmt.Errorf("releaseRules[%d]: release must be a type or false", i)
			}
			rule.Release = domain.ReleaseTypeNone
		default:
			return nil, fmt.Errorf("releaseRules[%d]: release is required", i)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
