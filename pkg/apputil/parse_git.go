package apputil

import (
	"net/url"
	"strings"
)

// IsSSHURL reports whether a remote uses the scp-like `user@host:path` form or
// the ssh:// scheme.
func IsSSHURL(remote string) bool {
	remote = strings.TrimSpace(remote)
	if strings.HasPrefix(remote, "ssh://") {
		return true
	}
	if strings.Contains(remote, "://") {
		return false
	}
	at := strings.Index(remote, "@")
	colon := strings.Index(remote, ":")
	return at >= 0 && colon > at
}

// NormalizeGitURL reduces a remote to `host/path` so that the SSH and HTTPS
// forms of one repository compare equal. Host is lower-cased, user info,
// port, the `.git` suffix and trailing slashes are dropped.
func NormalizeGitURL(remote string) string {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return ""
	}
	var host, path string
	if IsSSHURL(remote) && !strings.HasPrefix(remote, "ssh://") {
		at := strings.Index(remote, "@")
		rest := remote[at+1:]
		colon := strings.Index(rest, ":")
		host, path = rest[:colon], rest[colon+1:]
	} else {
		if !strings.Contains(remote, "://") {
			remote = "https://" + remote
		}
		u, err := url.Parse(remote)
		if err != nil {
			return strings.ToLower(remote)
		}
		host, path = u.Hostname(), u.Path
	}
	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")
	return strings.ToLower(host) + "/" + path
}

// SameRemote reports whether a and b point to the same repository.
func SameRemote(a, b string) bool {
	na, nb := NormalizeGitURL(a), NormalizeGitURL(b)
	return na != "" && na == nb
}
