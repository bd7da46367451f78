package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/deepentropy/pine2go/pkg/pine/ast"
)

// stubFS serves fixed library source from an in-memory map, embedding
// afs.Service so it satisfies the interface without implementing every
// method the real local/remote backends do.
type stubFS struct {
	afs.Service
	files map[string]string
	reads []string
}

func (s *stubFS) DownloadWithURL(ctx context.Context, URL string, options ...storage.Option) ([]byte, error) {
	s.reads = append(s.reads, URL)
	src, ok := s.files[URL]
	if !ok {
		return nil, assert.AnError
	}
	return []byte(src), nil
}

func imp(publisher, library, version string) ast.ImportInfo {
	return ast.ImportInfo{Publisher: publisher, Library: library, Version: version}
}

// stubTranspile returns the library's own source unchanged as "code" and
// looks up its declared dependencies from a fixed graph.
func stubTranspile(graph map[string][]ast.ImportInfo) TranspileFunc {
	return func(source, filename string) (string, []ast.ImportInfo, error) {
		return "// " + source, graph[source], nil
	}
}

func TestKeyAndModuleName(t *testing.T) {
	i := imp("tv", "util", "2")
	assert.Equal(t, "tv/util/2", Key(i))
	assert.Equal(t, "tv_util_v2", ModuleName(i))
}

func TestNormalizeSemver(t *testing.T) {
	assert.Equal(t, "v5.0.0", normalizeSemver("5"))
	assert.Equal(t, "v1.2.0", normalizeSemver("1.2"))
	assert.Equal(t, "v1.2.3", normalizeSemver("v1.2.3"))
}

func TestResolve_DependencyBeforeDependent(t *testing.T) {
	// A imports B and C; B imports C. Expect C, B, A with C deduplicated.
	a := imp("pub", "a", "1")
	b := imp("pub", "b", "1")
	c := imp("pub", "c", "1")

	fs := &stubFS{files: map[string]string{
		"base/pub/a-v1.pine": "A",
		"base/pub/b-v1.pine": "B",
		"base/pub/c-v1.pine": "C",
	}}

	graph := map[string][]ast.ImportInfo{
		"A": {b, c},
		"B": {c},
		"C": {},
	}

	r := New(fs, "base", "pine", stubTranspile(graph))

	libs, err := r.Resolve(context.Background(), []ast.ImportInfo{a})
	require.NoError(t, err)
	require.Len(t, libs, 3)

	assert.Equal(t, "pub/c/1", libs[0].Key)
	assert.Equal(t, "pub/b/1", libs[1].Key)
	assert.Equal(t, "pub/a/1", libs[2].Key)
}

func TestResolve_CycleDetected(t *testing.T) {
	a := imp("pub", "a", "1")
	c := imp("pub", "c", "1")

	fs := &stubFS{files: map[string]string{
		"base/pub/a-v1.pine": "A",
		"base/pub/c-v1.pine": "C",
	}}

	graph := map[string][]ast.ImportInfo{
		"A": {c},
		"C": {a},
	}

	r := New(fs, "base", "pine", stubTranspile(graph))

	_, err := r.Resolve(context.Background(), []ast.ImportInfo{a})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic import")
}

func TestResolve_WarmCacheSkipsRetranspile(t *testing.T) {
	a := imp("pub", "a", "1")

	fs := &stubFS{files: map[string]string{
		"base/pub/a-v1.pine": "A",
	}}

	calls := 0
	transpile := func(source, filename string) (string, []ast.ImportInfo, error) {
		calls++
		return "// " + source, nil, nil
	}

	r := New(fs, "base", "pine", transpile)

	_, err := r.Resolve(context.Background(), []ast.ImportInfo{a})
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), []ast.ImportInfo{a})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestResolve_DiamondDependencyDeduplicated(t *testing.T) {
	a := imp("pub", "a", "1")
	b := imp("pub", "b", "1")
	c := imp("pub", "c", "1")

	fs := &stubFS{files: map[string]string{
		"base/pub/a-v1.pine": "A",
		"base/pub/b-v1.pine": "B",
		"base/pub/c-v1.pine": "C",
	}}

	graph := map[string][]ast.ImportInfo{
		"A": {b, c},
		"B": {c},
		"C": {},
	}

	r := New(fs, "base", "pine", stubTranspile(graph))

	libs, err := r.Resolve(context.Background(), []ast.ImportInfo{a, c})
	require.NoError(t, err)

	count := 0
	for _, l := range libs {
		if l.Key == "pub/c/1" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
