package apputil

import (
	"testing"
)

func TestNormalizeGitURL(t *testing.T) {
	var tests = map[string]string{
		"git@github.com:org/repo.git":       "github.com/org/repo",
		"git@GitHub.com:org/repo":           "github.com/org/repo",
		"ssh://git@github.com/org/repo.git": "github.com/org/repo",
		"ssh://git@github.com:22/org/repo":  "github.com/org/repo",
		"https://github.com/org/repo.git":   "github.com/org/repo",
		"https://user@github.com/org/repo/": "github.com/org/repo",
		"github.com/org/repo":               "github.com/org/repo",
		"":                                  "",
	}
	for r, want := range tests {
		Assert(want, NormalizeGitURL(r), t)
	}
}

func TestSameRemote(t *testing.T) {
	Assert(true, SameRemote("git@host:org/repo.git", "https://host/org/repo.git"), t)
	Assert(true, SameRemote("git@host:org/repo", "https://host/org/repo.git"), t)
	Assert(false, SameRemote("git@host:org/repo", "https://host/org/other"), t)
	Assert(false, SameRemote("git@host:org/repo", "https://other/org/repo"), t)
	Assert(false, SameRemote("", ""), t)
}

func TestIsSSHURL(t *testing.T) {
	Assert(true, IsSSHURL("git@host:org/repo.git"), t)
	Assert(true, IsSSHURL("ssh://git@host/org/repo.git"), t)
	Assert(false, IsSSHURL("https://host/org/repo.git"), t)
	Assert(false, IsSSHURL("https://user@host:8443/org/repo.git"), t)
}
