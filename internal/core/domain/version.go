package domain

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// InitialVersion is used when a branch has no previous release.
const InitialVersion = "1.0.0"

type ReleaseType string

const (
	ReleaseTypeNone  ReleaseType = ""
	ReleaseTypePatch ReleaseType = "patch"
	ReleaseTypeMinor ReleaseType = "minor"
	ReleaseTypeMajor ReleaseType = "major"
)

func (t ReleaseType) rank() int {
	switch t {
	case ReleaseTypePatch:
		return 1
	case ReleaseTypeMinor:
		return 2
	case ReleaseTypeMajor:
		return 3
	}
	return 0
}

// Max returns the more significant of the two release types.
func (t ReleaseType) Max(other ReleaseType) ReleaseType {
	if other.rank() > t.rank() {
		return other
	}
	return t
}

func (t ReleaseType) Valid() bool {
	return t == ReleaseTypeNone || t.rank() > 0
}

// IsValidVersion reports whether v is a full MAJOR.MINOR.PATCH semantic version
// without a leading "v".
func IsValidVersion(v string) bool {
	if strings.HasPrefix(v, "v") {
		return false
	}
	sv := "v" + v
	return semver.IsValid(sv) && strings.Count(strings.SplitN(strings.SplitN(v, "-", 2)[0], "+", 2)[0], ".") == 2
}

// CompareVersions orders two versions the way semver does.
func CompareVersions(a, b string) int {
	return semver.Compare("v"+a, "v"+b)
}

// NextVersion bumps last by t. An empty last yields InitialVersion. A
// prerelease last follows semver increment rules: 2.0.0-beta.1 bumps to
// 2.0.0 for any type.
func NextVersion(last string, t ReleaseType) (string, error) {
	if t == ReleaseTypeNone {
		return "", fmt.Errorf("next version: release type is required")
	}
	if !t.Valid() {
		return "", fmt.Errorf("next version: unknown release type %q", t)
	}
	if last == "" {
		return InitialVersion, nil
	}
	if !IsValidVersion(last) {
		return "", fmt.Errorf("next version: invalid last version %q", last)
	}

	core := strings.TrimPrefix(semver.Canonical("v"+last), "v")
	pre := semver.Prerelease("v" + last)
	core = strings.TrimSuffix(core, pre)
	parts := strings.Split(core, ".")
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", fmt.Errorf("next version: parse %q: %w", last, err)
		}
		nums[i] = n
	}

	// A prerelease already sits below its own core version, so the core is
	// the bump whenever it is large enough for t.
	switch {
	case t == ReleaseTypeMajor && pre != "" && nums[1] == 0 && nums[2] == 0:
	case t == ReleaseTypeMajor:
		nums[0], nums[1], nums[2] = nums[0]+1, 0, 0
	case t == ReleaseTypeMinor && pre != "" && nums[2] == 0:
	case t == ReleaseTypeMinor:
		nums[1], nums[2] = nums[1]+1, 0
	case t == ReleaseTypePatch && pre != "":
	case t == ReleaseTypePatch:
		nums[2]++
	}
	return fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2]), nil
}

const versionPlaceholder = "${version}"

// FormatTag renders a tag format such as "v${version}".
func FormatTag(format, version string) string {
	return strings.ReplaceAll(format, versionPlaceholder, version)
}

// ParseTag extracts the version from tag according to format. It returns
// false when tag does not follow the format or the version is not semver.
func ParseTag(format, tag string) (string, bool) {
	idx := strings.Index(format, versionPlaceholder)
	if idx == -1 {
		return "", false
	}
	prefix := format[:idx]
	suffix := format[idx+len(versionPlaceholder):]
	if !strings.HasPrefix(tag, prefix) || !strings.HasSuffix(tag, suffix) {
		return "", false
	}
	if len(tag) < len(prefix)+len(suffix) {
		return "", false
	}
	version := tag[len(prefix) : len(tag)-len(suffix)]
	if !IsValidVersion(version) {
		return "", false
	}
	return version, true
}

// IsPrerelease reports whether v carries a prerelease suffix.
func IsPrerelease(v string) bool {
	return semver.Prerelease("v"+v) != ""
}
