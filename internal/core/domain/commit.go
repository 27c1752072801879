package domain

import (
	"regexp"
	"strings"

	"github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"
)

type Commit struct {
	Hash    string
	Message string
}

// ShortHash returns the first seven characters of the hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Subject is the first line of the message.
func (c Commit) Subject() string {
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return strings.TrimSpace(subject)
}

type ConventionalCommit struct {
	Hash          string
	Type          string
	Scope         string
	Subject       string
	Breaking      bool
	BreakingNotes []string
}

// revertPattern matches the subject git writes for "git revert".
var revertPattern = regexp.MustCompile(`^[Rr]evert:?\s+"?(.+?)"?$`)

// newCommitMachine returns a fresh parser; machines carry state between
// Parse calls and must not be shared.
func newCommitMachine() conventionalcommits.Machine {
	return parser.NewMachine(
		conventionalcommits.WithTypes(conventionalcommits.TypesFreeForm),
		conventionalcommits.WithBestEffort(),
	)
}

// ParseConventional reads a "type(scope)!: subject" header and any
// BREAKING CHANGE footers. ok is false for messages that do not follow the
// convention.
func ParseConventional(c Commit) (ConventionalCommit, bool) {
	subject := c.Subject()
	if subject == "" {
		return ConventionalCommit{}, false
	}

	if m := revertPattern.FindStringSubmatch(subject); m != nil {
		return ConventionalCommit{Hash: c.Hash, Type: "revert", Subject: m[1]}, true
	}

	message := strings.TrimSpace(strings.ReplaceAll(c.Message, "\r\n", "\n"))
	// best effort keeps the header when the body or footers are malformed
	parsed, _ := newCommitMachine().Parse([]byte(message))
	if parsed == nil || !parsed.Ok() {
		return ConventionalCommit{}, false
	}
	m, ok := parsed.(*conventionalcommits.ConventionalCommit)
	if !ok {
		return ConventionalCommit{}, false
	}

	cc := ConventionalCommit{
		Hash:     c.Hash,
		Type:     strings.ToLower(m.Type),
		Subject:  strings.TrimSpace(m.Description),
		Breaking: m.IsBreakingChange(),
	}
	if m.Scope != nil {
		cc.Scope = *m.Scope
	}
	for _, key := range []string{"breaking-change", "breaking change"} {
		for _, note := range m.Footers[key] {
			if note = strings.TrimSpace(note); note != "" {
				cc.BreakingNotes = append(cc.BreakingNotes, note)
			}
		}
	}
	if len(cc.BreakingNotes) > 0 {
		cc.Breaking = true
	} else if cc.Breaking {
		cc.BreakingNotes = []string{cc.Subject}
	}
	return cc, true
}
