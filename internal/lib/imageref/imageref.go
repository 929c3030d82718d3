// Package imageref maps stored image references to blob-storage keys.
//
// References come in several historical shapes:
//
//	https://bucket.s3.region.amazonaws.com/images/file.jpg
//	https://s3.region.amazonaws.com/bucket/images/file.jpg
//	/images/file.jpg  (legacy local path)
//	images/file.jpg   (bare key)
//
// Getting the mapping wrong silently leaks blobs, so these are kept as
// small pure functions with their own tests.
package imageref

import (
	"regexp"
	"strings"
)

// KeyPrefix is the leading path segment under which all images are stored.
const KeyPrefix = "images/"

var keyFallbackRe = regexp.MustCompile(`images/[^?]+`)

// IsRemote reports whether ref points at the object-storage bucket rather
// than a legacy local file.
func IsRemote(ref string) bool {
	if ref == "" {
		return false
	}
	return strings.Contains(ref, ".s3.") ||
		strings.Contains(ref, "s3.amazonaws.com") ||
		strings.HasPrefix(ref, KeyPrefix)
}

// ExtractKey resolves ref to the blob key it points at. The second return
// is false when no key could be found.
func ExtractKey(ref, bucket string) (string, bool) {
	if ref == "" {
		return "", false
	}
	if strings.HasPrefix(ref, KeyPrefix) {
		return ref, true
	}
	if strings.HasPrefix(ref, "/"+KeyPrefix) {
		return ref[1:], true
	}
	if strings.Contains(ref, ".s3.") || strings.Contains(ref, "s3.amazonaws.com") {
		// Locate the host or path segment carrying the bucket/service marker
		// and join everything after it as the key.
		parts := strings.Split(ref, "/")
		markerIdx := -1
		for i, part := range parts {
			if strings.Contains(part, "s3") || (bucket != "" && strings.Contains(part, bucket)) {
				markerIdx = i
			}
		}
		if markerIdx != -1 && markerIdx < len(parts)-1 {
			return strings.Join(parts[markerIdx+1:], "/"), true
		}
		if m := keyFallbackRe.FindString(ref); m != "" {
			return m, true
		}
	}
	return "", false
}

// LocalFilename extracts the bare filename from a legacy local reference
// like "/images/file.jpg" or any URL containing an "/images/" segment.
func LocalFilename(ref string) (string, bool) {
	if !strings.Contains(ref, "/"+KeyPrefix) {
		return "", false
	}
	rest := ref[strings.Index(ref, "/"+KeyPrefix)+len("/"+KeyPrefix):]
	if i := strings.IndexByte(rest, '?'); i != -1 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}
