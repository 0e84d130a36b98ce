// Package ignore filters paths during build-time directory walks using
// .dcgraphignore rules, a small gitignore-like dialect: blank lines and
// #-comments are skipped, a trailing slash restricts a rule to directories
// (and everything under them), a leading slash anchors it to the walk root,
// a leading ! negates an earlier match, and * ? ** glob.
package ignore

import (
	"path"
	"regexp"
	"strings"
)

// defaultRules always apply and can be overridden by user negation rules.
var defaultRules = []string{
	".git/",
	".dcgraph/",
}

type rule struct {
	re       *regexp.Regexp
	negated  bool
	dirOnly  bool
	anchored bool
}

// Matcher applies ignore rules with last-rule-wins semantics. Rules are
// compiled once at construction.
type Matcher struct {
	rules []rule
}

// NewMatcher builds a matcher from user rule lines, prepended with the
// default excludes.
func NewMatcher(userRules []string) *Matcher {
	lines := make([]string, 0, len(defaultRules)+len(userRules))
	lines = append(lines, defaultRules...)
	lines = append(lines, userRules...)

	m := &Matcher{rules: make([]rule, 0, len(lines))}
	for _, line := range lines {
		if r, ok := compileRule(line); ok {
			m.rules = append(m.rules, r)
		}
	}
	return m
}

// ShouldIgnore reports whether relPath (slash- or OS-separated, relative to
// the walk root) is excluded.
func (m *Matcher) ShouldIgnore(relPath string, isDir bool) bool {
	relPath = normalize(relPath)
	if relPath == "" || relPath == "." {
		return false
	}
	ignored := false
	for _, r := range m.rules {
		if r.matches(relPath, isDir) {
			ignored = !r.negated
		}
	}
	return ignored
}

func compileRule(line string) (rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	var r rule
	if strings.HasPrefix(line, "!") {
		r.negated = true
		line = line[1:]
	}
	if strings.HasPrefix(line, "/") {
		r.anchored = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	line = normalize(line)
	if line == "" {
		return rule{}, false
	}

	re, err := regexp.Compile("^" + globToRegex(line) + "$")
	if err != nil {
		return rule{}, false
	}
	r.re = re
	return r, true
}

func (r rule) matches(relPath string, isDir bool) bool {
	if !r.dirOnly {
		return r.matchText(relPath)
	}
	// Directory rules also cover everything beneath the directory.
	segs := strings.Split(relPath, "/")
	limit := len(segs)
	if !isDir {
		limit--
	}
	for i := 1; i <= limit; i++ {
		if r.matchText(strings.Join(segs[:i], "/")) {
			return true
		}
	}
	return false
}

func (r rule) matchText(p string) bool {
	if r.anchored {
		return r.re.MatchString(p)
	}
	if r.re.MatchString(p) || r.re.MatchString(path.Base(p)) {
		return true
	}
	segs := strings.Split(p, "/")
	for i := 1; i < len(segs); i++ {
		if r.re.MatchString(strings.Join(segs[i:], "/")) {
			return true
		}
	}
	return false
}

func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		default:
			if strings.ContainsRune(`.+()|[]{}^$\`, rune(c)) {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

func normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	return p
}
