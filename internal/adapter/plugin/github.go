package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/rl1809/packdemo/internal/core/domain"
	"github.com/rl1809/packdemo/internal/port"
)

const defaultGitHubAPI = "https://api.github.com"

// GitHub publishes a GitHub release for the new tag.
type GitHub struct {
	client *github.Client
	draft  bool
	getenv func(string) string
	logger *slog.Logger
}

// NewGitHub builds the publisher. A githubApiUrl other than the public API
// is treated as a GitHub Enterprise endpoint.
func NewGitHub(opts Options, deps Deps) (port.Plugin, error) {
	api, err := opts.String("githubApiUrl", defaultGitHubAPI)
	if err != nil {
		return nil, err
	}
	draft, err := opts.Bool("draftRelease", false)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(deps.HTTPClient)
	if strings.TrimRight(api, "/") != defaultGitHubAPI {
		client, err = client.WithEnterpriseURLs(api, api)
		if err != nil {
			return nil, fmt.Errorf("githubApiUrl: %w", err)
		}
	}
	return &GitHub{
		client: client,
		draft:  draft,
		getenv: deps.Getenv,
		logger: deps.Logger,
	}, nil
}

func (g *GitHub) Name() string { return GitHubName }

func (g *GitHub) token() string {
	if t := g.getenv("GITHUB_TOKEN"); t != "" {
		return t
	}
	return g.getenv("GH_TOKEN")
}

func (g *GitHub) VerifyConditions(ctx context.Context, rc *domain.ReleaseContext) error {
	if g.token() == "" {
		return fmt.Errorf("no github token specified, set GITHUB_TOKEN or GH_TOKEN")
	}
	if _, _, ok := ownerRepo(rc.RepositoryURL); !ok {
		return fmt.Errorf("repository url %q is not a github repository", rc.RepositoryURL)
	}
	return nil
}

func (g *GitHub) Publish(ctx context.Context, rc *domain.ReleaseContext) error {
	owner, repo, ok := ownerRepo(rc.RepositoryURL)
	if !ok {
		return fmt.Errorf("repository url %q is not a github repository", rc.RepositoryURL)
	}

	created, _, err := g.client.WithAuthToken(g.token()).Repositories.CreateRelease(ctx, owner, repo, &github.RepositoryRelease{
		TagName:         github.String(rc.NextRelease.GitTag),
		TargetCommitish: github.String(rc.Branch),
		Name:            github.String(rc.NextRelease.GitTag),
		Body:            github.String(rc.NextRelease.Notes),
		Draft:           github.Bool(g.draft),
		Prerelease:      github.Bool(false),
	})
	if err != nil {
		return fmt.Errorf("create release: %w", err)
	}
	g.logger.Info("published github release", "url", created.GetHTMLURL(), "tag", rc.NextRelease.GitTag)
	return nil
}
