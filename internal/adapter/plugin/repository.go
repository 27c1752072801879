package plugin

import (
	"net/url"
	"strings"
)

// repositoryWebURL turns a git remote (https, ssh or scp-like) into the
// browsable https URL. It returns "" when raw cannot be understood.
func repositoryWebURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	raw = strings.TrimPrefix(raw, "git+")

	// scp-like: git@github.com:owner/repo.git
	if !strings.Contains(raw, "://") {
		userHost, path, ok := strings.Cut(raw, ":")
		if !ok {
			return ""
		}
		host := userHost
		if _, h, found := strings.Cut(userHost, "@"); found {
			host = h
		}
		return "https://" + host + "/" + trimRepoPath(path)
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return "https://" + u.Hostname() + "/" + trimRepoPath(u.Path)
}

func trimRepoPath(p string) string {
	p = strings.Trim(p, "/")
	return strings.TrimSuffix(p, ".git")
}

// ownerRepo extracts "owner" and "repo" from a repository URL.
func ownerRepo(raw string) (string, string, bool) {
	web := repositoryWebURL(raw)
	if web == "" {
		return "", "", false
	}
	u, err := url.Parse(web)
	if err != nil {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
