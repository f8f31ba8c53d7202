// Package resolve defines the data model shared between the name resolver
// and the diagnosis engine in internal/resolve/diagnose: definition kinds and
// resolutions, path segments, the scope (rib) stack, the module tree, and the
// read-only Snapshot the engine queries.
//
// The types here are deliberately passive. The resolver fills them in during
// its walk; the engine only reads them. ForEachChild and ExternPreludeNames
// iterate in sorted order so every downstream traversal is deterministic and
// repeated runs over the same snapshot produce byte-identical diagnostics.
package resolve
