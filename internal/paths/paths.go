// Package paths joins and canonicalizes the slash-separated paths used by the
// album backend. The root path is the empty string. Every function here is
// total: no input shape panics or returns an error.
package paths

import "strings"

const (
	// Separator splits path segments.
	Separator = "/"
	// ParentMarker is the segment that ascends one level.
	ParentMarker = ".."

	// ThumbRoute is the route prefix the backend serves scaled previews under.
	ThumbRoute = "thumbs/"
	// ThumbMarker prefixes the display path of a thumbnail.
	ThumbMarker = "t/"
	// EncryptedThumbMarker prefixes the display path of an encrypted item's thumbnail.
	EncryptedThumbMarker = "e/t/"
)

// Join appends segment to root. Joining onto the root path returns the
// segment unchanged; the parent marker truncates root at its last separator,
// and ascending past the top stays at the root.
func Join(root, segment string) string {
	if root == "" {
		if segment == ParentMarker {
			return ""
		}
		return segment
	}
	if segment == ParentMarker {
		i := strings.LastIndex(root, Separator)
		if i > 0 {
			return root[:i]
		}
		return ""
	}
	segment = strings.Trim(segment, Separator)
	if segment == "" {
		return root
	}
	return root + Separator + segment
}

// Parent returns the parent of p, or the root path for top-level paths.
func Parent(p string) string {
	return Join(p, ParentMarker)
}

// Base returns the last segment of p.
func Base(p string) string {
	if i := strings.LastIndex(p, Separator); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Segments splits p into its non-empty segments.
func Segments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, Separator) {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Clean resolves p segment by segment with Join, so "." segments vanish and
// ".." never climbs above the root.
func Clean(p string) string {
	out := ""
	for _, s := range Segments(p) {
		if s == "." {
			continue
		}
		out = Join(out, s)
	}
	return out
}

// ThumbnailPath returns the display path the backend uses for the preview of
// origin.
func ThumbnailPath(origin string, encrypted bool) string {
	if encrypted {
		return EncryptedThumbMarker + origin
	}
	return ThumbMarker + origin
}

// NormalizeSourceIdentity recovers the canonical origin path from a display
// path. A display path is a URL or an absolute path; anything else is already
// an origin path and is returned unchanged, so folders named "t", "e/t" or
// "thumbs" survive. For display paths these steps run in order:
//
//  1. drop a URL origin ("scheme://host")
//  2. drop leading separators
//  3. drop the thumbnail route prefix
//  4. drop the encrypted-thumbnail marker, or else the thumbnail marker
//
// Steps repeat while the result is still a display path. The result never
// is one, so the function is idempotent.
func NormalizeSourceIdentity(display string) string {
	s := display
	for isDisplayPath(s) {
		s = stripOrigin(s)
		s = strings.TrimLeft(s, Separator)
		s = strings.TrimPrefix(s, ThumbRoute)
		s = stripMarker(s)
	}
	return s
}

func isDisplayPath(s string) bool {
	return strings.HasPrefix(s, Separator) || stripOrigin(s) != s
}

func stripOrigin(s string) string {
	i := strings.Index(s, "://")
	if i <= 0 || strings.Contains(s[:i], Separator) {
		return s
	}
	rest := s[i+3:]
	j := strings.Index(rest, Separator)
	if j < 0 {
		return ""
	}
	return rest[j:]
}

func stripMarker(s string) string {
	if strings.HasPrefix(s, EncryptedThumbMarker) {
		return s[len(EncryptedThumbMarker):]
	}
	return strings.TrimPrefix(s, ThumbMarker)
}
