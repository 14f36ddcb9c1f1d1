package features

import "strings"

type parts struct {
	scheme string
	netloc string
	path   string
}

// split breaks raw into scheme, network location and path the way urlsplit does.
// Only http and https URLs with an authority are accepted.
func split(raw string) (p parts, ok bool) {
	s := strings.TrimLeftFunc(raw, func(r rune) bool {
		return r <= ' '
	})
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)

	i := strings.IndexByte(s, ':')
	if i <= 0 || !isSchemeStart(s[0]) {
		return p, false
	}
	for j := 1; j < i; j++ {
		if !isSchemeChar(s[j]) {
			return p, false
		}
	}
	p.scheme = strings.ToLower(s[:i])
	if p.scheme != "http" && p.scheme != "https" {
		return p, false
	}
	s = s[i+1:]
	if !strings.HasPrefix(s, "//") {
		return p, false
	}
	s = s[2:]

	end := strings.IndexAny(s, "/?#")
	if end < 0 {
		end = len(s)
	}
	p.netloc, s = s[:end], s[end:]
	if strings.Contains(p.netloc, "[") != strings.Contains(p.netloc, "]") {
		return p, false
	}

	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	// ;params of the last path segment are not part of the path
	if i := strings.IndexByte(s[strings.LastIndexByte(s, '/')+1:], ';'); i >= 0 {
		s = s[:strings.LastIndexByte(s, '/')+1+i]
	}
	p.path = s
	return p, true
}

func isSchemeStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSchemeChar(c byte) bool {
	return isSchemeStart(c) || (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.'
}
