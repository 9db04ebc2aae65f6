package scanner

import (
	"strconv"
	"strings"
)

// SshTarget is a parsed remote scan target (spec.md §4.4, §6).
type SshTarget struct {
	User string // empty if unspecified
	Host string
	Port int // 0 if unspecified (use ssh default)
	Path string
}

// ParseSshTarget parses one of the four accepted wire shapes:
//
//	user@host:/abs
//	host:/abs
//	ssh://user@host/abs
//	ssh://user@host:port/abs
//
// A "remote path" is exactly the set of strings that parse successfully
// here; anything without a path component, or an absolute local path
// (leading "/"), is rejected.
func ParseSshTarget(s string) (SshTarget, bool) {
	if strings.HasPrefix(s, "ssh://") {
		return parseSshURL(s[len("ssh://"):])
	}
	if strings.Contains(s, ":") && !strings.HasPrefix(s, "/") {
		return parseScpFormat(s)
	}
	return SshTarget{}, false
}

func parseSshURL(s string) (SshTarget, bool) {
	authHost, path, ok := strings.Cut(s, "/")
	if !ok || path == "" {
		return SshTarget{}, false
	}
	path = "/" + path

	var user, hostPort string
	if u, h, found := strings.Cut(authHost, "@"); found {
		user, hostPort = u, h
	} else {
		hostPort = authHost
	}

	host := hostPort
	port := 0
	if h, p, found := strings.Cut(hostPort, ":"); found {
		host = h
		parsed, err := strconv.Atoi(p)
		if err != nil {
			return SshTarget{}, false
		}
		port = parsed
	}
	if host == "" {
		return SshTarget{}, false
	}

	return SshTarget{User: user, Host: host, Port: port, Path: path}, true
}

func parseScpFormat(s string) (SshTarget, bool) {
	hostPart, path, ok := strings.Cut(s, ":")
	if !ok || path == "" {
		return SshTarget{}, false
	}

	var user, host string
	if u, h, found := strings.Cut(hostPart, "@"); found {
		user, host = u, h
	} else {
		host = hostPart
	}
	if host == "" {
		return SshTarget{}, false
	}

	return SshTarget{User: user, Host: host, Path: path}, true
}

// IsRemotePath reports whether s successfully parses as an SshTarget.
func IsRemotePath(s string) bool {
	_, ok := ParseSshTarget(s)
	return ok
}

// Display renders the target back into its scp-style string form.
func (t SshTarget) Display() string {
	var b strings.Builder
	if t.User != "" {
		b.WriteString(t.User)
		b.WriteByte('@')
	}
	b.WriteString(t.Host)
	if t.Port != 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(t.Port))
	}
	b.WriteByte(':')
	b.WriteString(t.Path)
	return b.String()
}

// destination returns the user@host (or bare host) argument for ssh.
func (t SshTarget) destination() string {
	if t.User != "" {
		return t.User + "@" + t.Host
	}
	return t.Host
}
