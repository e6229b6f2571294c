package main

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Orphans returns the keys whose public URL no material references. Keys
// uploaded less than grace ago are skipped, since their insert may still be
// in flight.
func Orphans(keys []string, publicURL func(string) string, referenced []string, now time.Time, grace time.Duration) []string {
	refs := make(map[string]struct{}, len(referenced))
	for _, u := range referenced {
		refs[strings.TrimSpace(u)] = struct{}{}
	}
	out := []string{}
	for _, k := range keys {
		if _, ok := refs[publicURL(k)]; ok {
			continue
		}
		if at, ok := uploadedAt(k); ok && now.Sub(at) < grace {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// uploadedAt reads the millisecond timestamp material keys start with.
func uploadedAt(key string) (time.Time, bool) {
	prefix, _, found := strings.Cut(key, "-")
	if !found {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
