// Package driver orchestrates scenario runs: it loads fixture files, feeds
// them through the diagnosis engine, verifies expectations, and caches the
// outcome keyed by scenario content.
package driver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"ferro/internal/diag"
	"ferro/internal/diagfmt"
	"ferro/internal/fixture"
	"ferro/internal/resolve/diagnose"
	"ferro/internal/source"
)

// Options configures a driver run.
type Options struct {
	// Jobs limits parallelism, 0 means GOMAXPROCS.
	Jobs int
	// MaxDiags caps the per-scenario bag.
	MaxDiags int
	// NoCache bypasses the disk cache entirely.
	NoCache bool
	// CacheApp names the cache directory, default "ferro".
	CacheApp string
}

// Result is the outcome of diagnosing one scenario file.
type Result struct {
	Path       string
	Output     diagfmt.DiagnosticsOutput
	Mismatches []string
	FromCache  bool
	// Bag and Files are populated only for fresh (non-cached) runs.
	Bag   *diag.Bag
	Files *source.FileSet
}

// ListScenarioFiles returns the sorted *.toml files under dir.
func ListScenarioFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".toml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// DiagnoseScenarios runs every scenario, in parallel up to opts.Jobs.
// Results keep the input order regardless of completion order.
func DiagnoseScenarios(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	var cache *DiskCache
	if !opts.NoCache {
		app := opts.CacheApp
		if app == "" {
			app = "ferro"
		}
		var err error
		cache, err = OpenDiskCache(app)
		if err != nil {
			// Cache trouble never fails the run.
			cache = nil
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := diagnoseOne(path, opts, cache)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func diagnoseOne(path string, opts Options, cache *DiskCache) (Result, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- scenario path comes from the caller
	if err != nil {
		return Result{}, err
	}
	key := Digest(sha256.Sum256(content))

	if cache != nil {
		var payload Payload
		if ok, err := cache.Get(key, &payload); err == nil && ok && payload.FixtureHash == key {
			return Result{
				Path:       path,
				Output:     payload.Output,
				Mismatches: payload.Mismatches,
				FromCache:  true,
			}, nil
		}
	}

	sc, err := fixture.Load(path)
	if err != nil {
		return Result{}, err
	}
	built, err := sc.Build()
	if err != nil {
		return Result{}, err
	}

	maxDiags := opts.MaxDiags
	if maxDiags <= 0 {
		maxDiags = 64
	}
	bag := diag.NewBag(maxDiags)

	eng := diagnose.New(built.Config)
	if built.IsLabel {
		bag.Add(eng.DiagnoseLabel(built.LabelName, built.LabelSpan))
	} else {
		d, suggestions := eng.Diagnose(built.Request)
		d = attachImportHelp(d, built.Request, suggestions)
		bag.Add(d)
	}
	bag.Sort()

	mismatches := verify(bag, built.Expect)

	output, err := diagfmt.BuildDiagnosticsOutput(bag, built.Files, diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         diagfmt.PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})
	if err != nil {
		return Result{}, err
	}

	if cache != nil {
		_ = cache.Put(key, &Payload{
			Schema:      diskCacheSchemaVersion,
			FixtureHash: key,
			Output:      output,
			Mismatches:  mismatches,
		})
	}

	return Result{
		Path:       path,
		Output:     output,
		Mismatches: mismatches,
		Bag:        bag,
		Files:      built.Files,
	}, nil
}

// attachImportHelp renders accessible import candidates as notes, the way
// the resolver surfaces "consider importing" help.
func attachImportHelp(d diag.Diagnostic, req diagnose.Request, suggestions []diagnose.Suggestion) diag.Diagnostic {
	for _, s := range suggestions {
		if !s.Accessible {
			continue
		}
		d = d.WithNote(req.Span, fmt.Sprintf("consider importing this %s: `%s`", s.Descr, strings.Join(s.Path, "::")))
	}
	return d
}

// verify checks every expectation against the bag. Each failure becomes a
// human-readable mismatch line; an empty slice means the scenario passed.
func verify(bag *diag.Bag, expects []fixture.ExpectDoc) []string {
	var mismatches []string
	for _, exp := range expects {
		if !matchExpect(bag, exp) {
			mismatches = append(mismatches, fmt.Sprintf(
				"expected diagnostic %s with message containing %q", exp.Code, exp.Message))
		}
	}
	return mismatches
}

func matchExpect(bag *diag.Bag, exp fixture.ExpectDoc) bool {
	for _, d := range bag.Items() {
		if exp.Code != "" && d.Code.ID() != exp.Code {
			continue
		}
		if exp.Message != "" && !strings.Contains(d.Message, exp.Message) {
			continue
		}
		if !matchFixTitles(d, exp.Fixes) {
			continue
		}
		return true
	}
	return false
}

func matchFixTitles(d diag.Diagnostic, titles []string) bool {
	for _, want := range titles {
		found := false
		for _, f := range d.Fixes {
			if strings.Contains(f.Title, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
