package diagnose

import (
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"ferro/internal/resolve"
)

// editDistance is the Levenshtein distance between two names.
func editDistance(a, b string) int {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffLevenshtein(diffs)
}

// findBestMatch picks the candidate closest to target. A case-insensitive
// exact match wins outright; otherwise the smallest edit distance within
// max(len(target)/3, 1) does. Ties keep the earliest candidate, so callers
// must pass names in sorted order for deterministic output.
func findBestMatch(names []string, target string) (string, bool) {
	if target == "" {
		return "", false
	}
	folded := strings.ToLower(target)
	for _, n := range names {
		if n != "" && strings.ToLower(n) == folded {
			return n, true
		}
	}
	threshold := len(target) / 3
	if threshold < 1 {
		threshold = 1
	}
	best := ""
	bestDist := threshold + 1
	for _, n := range names {
		if n == "" {
			continue
		}
		if d := editDistance(n, target); d < bestDist {
			best, bestDist = n, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// lookupTypoCandidate returns the in-scope name most similar to the failing
// segment, or false when nothing is close enough. A winner identical to the
// target is rejected: the name is in scope but unusable for a different
// reason, and suggesting it back would be noise.
func (e *Engine) lookupTypoCandidate(path []resolve.Segment, ns resolve.Namespace, filter func(resolve.Res) bool) (typoCandidate, bool) {
	names := e.typoCandidates(path, ns, filter)
	if len(names) == 0 {
		return typoCandidate{}, false
	}
	sort.SliceStable(names, func(i, j int) bool { return names[i].Name < names[j].Name })

	target := path[len(path)-1].Name
	bare := make([]string, len(names))
	for i, n := range names {
		bare[i] = n.Name
	}
	best, ok := findBestMatch(bare, target)
	if !ok || best == target {
		return typoCandidate{}, false
	}
	for _, n := range names {
		if n.Name == best {
			return n, true
		}
	}
	return typoCandidate{}, false
}
