package filecache

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeKey maps an arbitrary key onto a safe flat filename stem.
func SanitizeKey(key string) string {
	return unsafeKeyChars.ReplaceAllString(key, "_")
}

// HashKey derives a fixed-width key from the identifying parts of a
// request, so distinct requests for the same underlying game collapse
// onto one cache entry.
func HashKey(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// TimeBucket floors now onto a window boundary. Keys that embed the
// bucket let concurrent readers inside one window share a single entry
// while still rolling over predictably.
func TimeBucket(now time.Time, window time.Duration) int64 {
	if window <= 0 {
		return now.Unix()
	}
	return now.Unix() / int64(window/time.Second)
}
