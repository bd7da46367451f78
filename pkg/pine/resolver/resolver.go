// Package resolver implements the library resolver (C4, spec.md §4.4): given
// a compilation unit's `import Publisher/Name/Version` list, it locates each
// library's source through an injected filesystem, recursively resolves its
// own imports first, transpiles it, and returns a topologically ordered list
// (dependencies before dependents) ready for the generated program to embed.
//
// Source I/O is injected via github.com/viant/afs's afs.Service, the same
// uniform local/memory/remote filesystem abstraction the pack's
// viant-linager analyzer uses to read project files
// (analyzer/package.go's DownloadWithURL), rather than a bare os.ReadFile.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/dchest/siphash"
	"github.com/viant/afs"
	log "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/deepentropy/pine2go/pkg/pine/ast"
)

// Library is one fully resolved, transpiled library module.
type Library struct {
	// Key is "publisher/name/version".
	Key string
	// ModuleName is "publisher_name_vversion", the generated package/module
	// identifier.
	ModuleName string
	// Code is the transpiled Go source for this library alone.
	Code string
	// Dependencies lists the keys of this library's direct imports, in the
	// order they appear in its source; transitive dependencies are not
	// included.
	Dependencies []string
}

// TranspileFunc compiles one library's source, returning its code plus the
// imports it itself declares (so the resolver can recurse). Callers
// typically close over pine.TranspileWithResult and its own Program.Imports.
type TranspileFunc func(source, filename string) (code string, imports []ast.ImportInfo, err error)

// Resolver holds the cache (completed transpilations) and in-progress set
// (for cycle detection) that persist across a resolver's lifetime, exactly
// as spec.md §4.4 and §5 require: "the resolver caches transpiled output
// keyed by (publisher, name, version) but never shares mutable symbol state
// across units."
type Resolver struct {
	fs        afs.Service
	basePath  string
	ext       string
	transpile TranspileFunc

	ids   map[string]uint
	newID uint

	inProgress *bitset.BitSet
	completed  *bitset.BitSet

	cache   map[string]*Library
	digests map[string]uint64

	// siphashKey is a fixed, process-local key: cache keys only need to be
	// stable within one resolver's lifetime, not across processes, so there
	// is no need to persist or configure it.
	siphashKey [16]byte
}

// New constructs a resolver. basePath/ext build each library's fetch URL as
// "<basePath>/<publisher>/<name>-v<version>.<ext>" (spec.md §4.4).
func New(fs afs.Service, basePath, ext string, transpile TranspileFunc) *Resolver {
	return &Resolver{
		fs:         fs,
		basePath:   basePath,
		ext:        ext,
		transpile:  transpile,
		ids:        map[string]uint{},
		inProgress: bitset.New(64),
		completed:  bitset.New(64),
		cache:      map[string]*Library{},
		digests:    map[string]uint64{},
	}
}

// Key renders an ImportInfo's cache key, "publisher/name/version".
func Key(imp ast.ImportInfo) string {
	return fmt.Sprintf("%s/%s/%s", imp.Publisher, imp.Library, imp.Version)
}

// ModuleName renders an ImportInfo's generated module identifier,
// "publisher_name_vversion".
func ModuleName(imp ast.ImportInfo) string {
	v := strings.TrimPrefix(imp.Version, "v")
	return fmt.Sprintf("%s_%s_v%s", imp.Publisher, imp.Library, v)
}

func (r *Resolver) url(imp ast.ImportInfo) string {
	return fmt.Sprintf("%s/%s/%s-v%s.%s", r.basePath, imp.Publisher, imp.Library, imp.Version, r.ext)
}

func (r *Resolver) idFor(key string) uint {
	if id, ok := r.ids[key]; ok {
		return id
	}

	id := r.newID
	r.newID++
	r.ids[key] = id

	return id
}

// Resolve resolves every import in imports, in source order, returning the
// full dependency-ordered list of transpiled libraries: every library
// appears exactly once, after all of its own dependencies (spec.md §4.4's
// "topological order, stable under source order"). Running Resolve twice
// with a warm cache (the same *Resolver reused) returns the same ordered
// list without re-transpiling any library whose source digest is unchanged.
func (r *Resolver) Resolve(ctx context.Context, imports []ast.ImportInfo) ([]*Library, error) {
	order := make([]*Library, 0, len(imports))
	seen := map[string]bool{}

	r.checkVersionSkew(imports)

	for _, imp := range imports {
		if err := r.resolveOne(ctx, imp, &order, seen); err != nil {
			return nil, err
		}
	}

	return order, nil
}

func (r *Resolver) resolveOne(ctx context.Context, imp ast.ImportInfo, order *[]*Library, seen map[string]bool) error {
	key := Key(imp)
	id := r.idFor(key)

	if r.completed.Test(id) && seen[key] {
		if lib, ok := r.cache[key]; ok {
			if !seen[key] {
				*order = append(*order, lib)
				seen[key] = true
			}

			return nil
		}
	}

	if r.inProgress.Test(id) {
		return fmt.Errorf("resolver: cyclic import detected at %s", key)
	}

	r.inProgress.Set(id)
	defer r.inProgress.Clear(id)

	src, err := r.fs.DownloadWithURL(ctx, r.url(imp))
	if err != nil {
		return fmt.Errorf("resolver: cannot read library %s: %w", key, err)
	}

	digest := r.digest(key, src)
	if cached, ok := r.cache[key]; ok && r.digests[key] == digest {
		for _, dep := range cached.Dependencies {
			parts := strings.SplitN(dep, "/", 3)
			if err := r.resolveOne(ctx, ast.ImportInfo{Publisher: parts[0], Library: parts[1], Version: parts[2]}, order, seen); err != nil {
				return err
			}
		}

		r.completed.Set(id)

		if !seen[key] {
			*order = append(*order, cached)
			seen[key] = true
		}

		return nil
	}

	log.WithField("library", key).Debug("resolving library")

	code, imports, err := r.transpile(string(src), r.url(imp))
	if err != nil {
		return fmt.Errorf("resolver: cannot transpile library %s: %w", key, err)
	}

	deps := make([]string, 0, len(imports))

	for _, dep := range imports {
		if err := r.resolveOne(ctx, dep, order, seen); err != nil {
			return err
		}

		deps = append(deps, Key(dep))
	}

	lib := &Library{
		Key:          key,
		ModuleName:   ModuleName(imp),
		Code:         code,
		Dependencies: deps,
	}

	r.cache[key] = lib
	r.digests[key] = digest
	r.completed.Set(id)

	if !seen[key] {
		*order = append(*order, lib)
		seen[key] = true
	}

	return nil
}

// digest hashes key + the library's source bytes with siphash, so a changed
// library file on disk invalidates the cache even within one resolver
// lifetime (spec.md §4.4's cache, generalized per SPEC_FULL.md §4.4).
func (r *Resolver) digest(key string, src []byte) uint64 {
	h := siphash.New(r.siphashKey[:])
	_, _ = h.Write([]byte(key))
	_, _ = h.Write(src)

	return h.Sum64()
}

// checkVersionSkew warns (never fails; spec.md has no such requirement) when
// two imports name the same publisher/library at incompatible major
// versions.
func (r *Resolver) checkVersionSkew(imports []ast.ImportInfo) {
	seen := map[string]string{}

	for _, imp := range imports {
		pkg := imp.Publisher + "/" + imp.Library
		norm := normalizeSemver(imp.Version)

		if prior, ok := seen[pkg]; ok && semver.Major(prior) != semver.Major(norm) {
			log.WithFields(log.Fields{
				"library": pkg,
				"version": imp.Version,
				"prior":   prior,
			}).Warn("incompatible major versions requested for the same library")
		}

		seen[pkg] = norm
	}
}

// normalizeSemver turns PineScript's bare version strings ("5", "1.2") into
// a leading-"v" semver golang.org/x/mod/semver can compare.
func normalizeSemver(v string) string {
	v = strings.TrimPrefix(v, "v")

	parts := strings.Split(v, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}

	return "v" + strings.Join(parts[:3], ".")
}
