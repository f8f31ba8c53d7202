// Package diagnose turns failed or mis-kinded path resolutions into rich
// diagnostics: a base "cannot find"/"expected X, found Y" error plus layered
// recovery help (typo candidates, import candidates, contextual rewrites,
// struct-literal hints, self/Self guidance, type-ascription recovery and
// lifetime suggestions).
//
// The engine is strictly read-only over the resolver state it borrows
// (resolve.Snapshot, the rib stacks, per-traversal Metadata) and strictly
// append-only over the diagnostic it builds. Every heuristic degrades to the
// plain fallback label when source text or context is unavailable, so a
// failed lookup always produces at least a correct base error.
//
// Fix applicability is graded: only rewrites that are unambiguous given the
// resolver's knowledge are marked diag.FixApplicabilityAlwaysSafe; everything
// driven by raw-text heuristics is SafeWithHeuristics or ManualReview.
package diagnose
