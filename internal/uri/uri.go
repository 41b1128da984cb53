// Package uri resolves playlist references against the document that carried
// them.
//
// Playlists mix absolute URIs, local absolute paths, paths relative to the
// playlist and Windows share notation. The helpers here turn all of these into
// URIs the resolver can classify, and compute the inverse relation when a
// playlist is written back to disk.
package uri

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Scheme returns the lower-cased scheme of s, or "" when s has none. A single
// letter before the colon is a Windows drive, not a scheme.
func Scheme(s string) string {
	i := strings.IndexByte(s, ':')
	if i < 2 {
		return ""
	}
	for j := 0; j < i; j++ {
		c := s[j]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case j > 0 && ((c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.'):
		default:
			return ""
		}
	}
	return strings.ToLower(s[:i])
}

// HasScheme reports whether s is a hierarchical URI ("scheme://...").
func HasScheme(s string) bool {
	return Scheme(s) != "" && strings.Contains(s, "://")
}

// IsAbsolute reports whether ref needs no base to be located: it carries a
// scheme or starts at the filesystem root.
func IsAbsolute(ref string) bool {
	return HasScheme(ref) || strings.HasPrefix(ref, "/")
}

// FromPath converts a local path into a file:// URI. Relative paths are made
// absolute against the working directory.
func FromPath(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return u.String()
}

// ToPath returns the local path of a file:// URI or a bare absolute path.
func ToPath(s string) (string, bool) {
	if strings.HasPrefix(s, "/") {
		return s, true
	}
	if Scheme(s) != "file" {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	if u.Path == "" {
		return "", false
	}
	return filepath.FromSlash(u.Path), true
}

// IsLocal reports whether s names something on the local filesystem.
func IsLocal(s string) bool {
	_, ok := ToPath(s)
	return ok
}

// Normalize turns local paths into file:// URIs and leaves everything else
// untouched.
func Normalize(s string) string {
	if s == "" || HasScheme(s) {
		return s
	}
	if strings.HasPrefix(s, "/") || Scheme(s) == "" {
		return FromPath(s)
	}
	return s
}

// Resolve joins ref to the directory of base. References with a scheme come
// back unchanged and path-root references become local file URIs whatever the
// base is.
func Resolve(base, ref string) string {
	if ref == "" || HasScheme(ref) {
		return ref
	}
	if strings.HasPrefix(ref, "/") {
		return FromPath(pathReference(ref).Path)
	}
	if base == "" {
		return ref
	}
	if !HasScheme(base) {
		base = FromPath(base)
	}
	bu, err := url.Parse(base)
	if err != nil {
		return joinRaw(base, ref)
	}
	bu.RawQuery = ""
	bu.ForceQuery = false
	bu.Fragment = ""
	bu.RawFragment = ""

	var ru *url.URL
	if bu.Scheme == "file" {
		ru = pathReference(ref)
	} else if parsed, perr := url.Parse(ref); perr == nil {
		ru = parsed
	} else {
		ru = &url.URL{Path: ref}
	}
	return bu.ResolveReference(ru).String()
}

// pathReference builds a reference whose every character is literal path
// text. Already escaped references are unescaped first so "%20" does not end
// up as "%2520".
func pathReference(ref string) *url.URL {
	if strings.Contains(ref, "%") {
		if unescaped, err := url.PathUnescape(ref); err == nil {
			return &url.URL{Path: unescaped}
		}
	}
	return &url.URL{Path: ref}
}

func joinRaw(base, ref string) string {
	dir := Base(base)
	if strings.HasPrefix(ref, "/") {
		return ref
	}
	return strings.TrimSuffix(dir, "/") + "/" + EscapePath(ref)
}

// Base returns the parent directory of s with query and fragment removed and
// no trailing slash (the root keeps its slash).
func Base(s string) string {
	if s == "" {
		return ""
	}
	if !HasScheme(s) {
		if strings.HasPrefix(s, "/") {
			return filepath.Dir(s)
		}
		return ""
	}
	u, err := url.Parse(s)
	if err != nil {
		if i := strings.LastIndexByte(s, '/'); i > 0 {
			return s[:i]
		}
		return s
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	p := u.Path
	if p == "" || p == "/" {
		u.Path = "/"
		u.RawPath = ""
		return u.String()
	}
	u.Path = path.Dir(strings.TrimSuffix(p, "/"))
	u.RawPath = ""
	return u.String()
}

// Join appends an escaped child name to a directory URI.
func Join(dir, name string) string {
	return strings.TrimSuffix(dir, "/") + "/" + EscapePath(name)
}

// RelativeTo returns s relative to the directory holding output, unescaped, or
// "" when s does not live below that directory.
func RelativeTo(s, output string) string {
	outBase := Base(Normalize(output))
	target := Normalize(s)
	if outBase == "" || target == "" {
		return ""
	}
	prefix := strings.TrimSuffix(outBase, "/")
	if !strings.HasPrefix(target, prefix+"/") {
		return ""
	}
	rest := target[len(prefix)+1:]
	if unescaped, err := url.PathUnescape(rest); err == nil {
		return unescaped
	}
	return rest
}

// EscapePath escapes every segment of p while keeping its slashes.
func EscapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// UNCToSMB rewrites a Windows share reference (\\host\share\file) to an smb
// URI. The second return is false when line is not in share notation.
func UNCToSMB(line string) (string, bool) {
	if !strings.HasPrefix(line, `\\`) {
		return "", false
	}
	rest := strings.ReplaceAll(line[2:], `\`, "/")
	if rest == "" {
		return "", false
	}
	return "smb://" + rest, true
}

// DisplayName returns the unescaped last path segment of s.
func DisplayName(s string) string {
	p := s
	if HasScheme(s) {
		if u, err := url.Parse(s); err == nil {
			p = u.Path
		}
	}
	p = strings.TrimSuffix(p, "/")
	name := path.Base(p)
	if name == "." || name == "/" {
		return ""
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// RewriteScheme replaces a leading scheme match (case-insensitive) with
// replacement, leaving the rest of s untouched.
func RewriteScheme(s, from, replacement string) string {
	if len(s) < len(from) || !strings.EqualFold(s[:len(from)], from) {
		return s
	}
	return replacement + s[len(from):]
}
