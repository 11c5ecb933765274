package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/specialistvlad/sosbs/internal/ctxlog"
	"github.com/specialistvlad/sosbs/internal/manifest"
)

// Discovery is the outcome of scanning candidate directories.
type Discovery struct {
	Registry *Registry
	// Problems holds per-location failures (malformed manifests, unknown
	// types). They were reported and skipped; the rest of the project loaded.
	Problems []error
}

// Discover scans the immediate subdirectories of every root, loads each
// descriptor through src and registers the result. Locations without a
// descriptor are skipped. A duplicate identifier aborts the whole pass.
func Discover(ctx context.Context, src manifest.Source, roots ...string) (*Discovery, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Target discovery started.", "roots", roots)

	d := &Discovery{Registry: New()}
	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("Target root does not exist, skipping.", "root", root)
				continue
			}
			return nil, fmt.Errorf("read target root %s: %w", root, err)
		}

		// os.ReadDir returns entries sorted by file name.
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			location := filepath.Join(root, entry.Name())

			t, err := src.Load(ctx, location)
			if err != nil {
				if errors.Is(err, manifest.ErrManifestNotFound) {
					logger.Debug("No manifest, skipping location.", "location", location)
					continue
				}
				logger.Warn("Skipping target with invalid manifest.", "location", location, "error", err)
				d.Problems = append(d.Problems, err)
				continue
			}

			if err := d.Registry.Register(t); err != nil {
				logger.Error("Discovery aborted.", "error", err)
				return nil, err
			}
			logger.Debug("Target registered.", "id", t.ID, "type", t.Type.String(), "location", location)
		}
	}

	logger.Debug("Target discovery finished.", "targets", d.Registry.Len(), "problems", len(d.Problems))
	return d, nil
}
