package target

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/specialistvlad/sosbs/internal/fsutil"
)

// Target is a single buildable component discovered from a manifest.
type Target struct {
	// ID is the unique, run-stable identifier.
	ID string
	// Type is the kind of artifact the target produces.
	Type Type
	// Location is the directory owning the target's manifest and sources.
	Location string
	// Dependencies holds the identifiers this target needs built first,
	// sorted and de-duplicated. They are not resolved at load time.
	Dependencies []string
	// SourceRoots are the directories scanned for sources.
	SourceRoots []string
	// Extensions selects which files under SourceRoots count as sources.
	Extensions []string
	// ManifestPath is the descriptor this target was loaded from.
	ManifestPath string

	sourcesOnce sync.Once
	sources     []string
	sourcesErr  error
}

// Sources returns the ordered source files of the target. The walk happens
// once per Target value; the result is lexicographically sorted.
func (t *Target) Sources() ([]string, error) {
	t.sourcesOnce.Do(func() {
		t.sources, t.sourcesErr = t.discoverSources()
	})
	return t.sources, t.sourcesErr
}

func (t *Target) discoverSources() ([]string, error) {
	if len(t.Extensions) == 0 {
		return nil, nil
	}
	var all []string
	for _, root := range t.SourceRoots {
		files, err := fsutil.FindFilesByExtension(root, t.Extensions...)
		if err != nil {
			return nil, fmt.Errorf("discover sources of %s under %s: %w", t.ID, root, err)
		}
		all = append(all, files...)
	}
	slices.Sort(all)
	return slices.Compact(all), nil
}

// DependsOn reports whether id is a declared direct dependency.
func (t *Target) DependsOn(id string) bool {
	_, found := slices.BinarySearch(t.Dependencies, id)
	return found
}

// OutputDir is the per-target directory under buildDir holding all artifacts.
func (t *Target) OutputDir(buildDir string) string {
	return filepath.Join(buildDir, t.ID)
}

// ObjectPath is the object file produced for source under buildDir.
// Sources outside Location go under obj/ext/<hash of their directory>, so
// equally named files from different source roots get distinct objects.
func (t *Target) ObjectPath(buildDir, source string) string {
	rel, err := filepath.Rel(t.Location, source)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		sum := sha256.Sum256([]byte(filepath.Dir(filepath.Clean(source))))
		rel = filepath.Join("ext", hex.EncodeToString(sum[:6]), filepath.Base(source))
	}
	return filepath.Join(t.OutputDir(buildDir), "obj", rel+".o")
}

// OutputPath is the single linked output of the target under buildDir.
func (t *Target) OutputPath(buildDir string) string {
	var name string
	switch t.Type {
	case Library:
		name = "lib" + t.ID + ".a"
	case Kernel:
		name = t.ID + ".bin"
	case Module:
		name = t.ID + ".ko"
	default:
		name = t.ID
	}
	return filepath.Join(t.OutputDir(buildDir), name)
}

// NormalizeDependencies sorts deps and drops duplicates and empty entries.
func NormalizeDependencies(deps []string) []string {
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
