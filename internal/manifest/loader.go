package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/sosbs/internal/ctxlog"
	"github.com/specialistvlad/sosbs/internal/fsutil"
	"github.com/specialistvlad/sosbs/internal/target"
	"gopkg.in/yaml.v3"
)

// FileNames lists the recognised descriptor names. A location holds at most one.
var FileNames = []string{"manifest.hcl", "manifest.json", "manifest.yaml", "manifest.yml"}

// DefaultSourceDir is used as the source root when a descriptor names none
// and the directory exists.
const DefaultSourceDir = "sources"

// Source is the collaborator that turns a location into a Target.
type Source interface {
	Load(ctx context.Context, location string) (*target.Target, error)
}

// descriptor is the on-disk shape shared by every descriptor format.
type descriptor struct {
	ID           string   `hcl:"id,optional" yaml:"id" validate:"required"`
	Type         string   `hcl:"type,optional" yaml:"type" validate:"required"`
	Dependencies []string `hcl:"dependencies,optional" yaml:"dependencies" validate:"dive,required"`
	Sources      []string `hcl:"sources,optional" yaml:"sources" validate:"dive,required"`
	Remain       hcl.Body `hcl:",remain" yaml:"-"`
}

// trim strips surrounding blanks so that whitespace-only values fail the
// required checks.
func (d *descriptor) trim() {
	d.ID = strings.TrimSpace(d.ID)
	d.Type = strings.TrimSpace(d.Type)
	for i, dep := range d.Dependencies {
		d.Dependencies[i] = strings.TrimSpace(dep)
	}
	for i, src := range d.Sources {
		d.Sources[i] = strings.TrimSpace(src)
	}
}

// Loader is the file-based Source implementation.
type Loader struct {
	extensions []string
	validate   *validator.Validate
}

// NewLoader creates a loader whose targets consider files with the given
// extensions to be sources.
func NewLoader(extensions ...string) *Loader {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Loader{extensions: extensions, validate: v}
}

// Find returns the descriptor path inside location. It fails with
// ErrManifestNotFound when there is none and with ErrMalformedManifest when
// more than one descriptor is present.
func Find(location string) (string, error) {
	var found []string
	for _, name := range FileNames {
		p := filepath.Join(location, name)
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			found = append(found, p)
			continue
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
	}
	switch len(found) {
	case 0:
		return "", &Error{Kind: ErrManifestNotFound, Path: location}
	case 1:
		return found[0], nil
	}
	names := make([]string, len(found))
	for i, p := range found {
		names[i] = filepath.Base(p)
	}
	return "", malformedf(location, "multiple descriptors: %s", strings.Join(names, ", "))
}

// Load reads the descriptor at location and builds a Target from it.
func (l *Loader) Load(ctx context.Context, location string) (*target.Target, error) {
	logger := ctxlog.FromContext(ctx)

	location, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("resolve location: %w", err)
	}

	path, err := Find(location)
	if err != nil {
		return nil, err
	}
	logger.Debug("Reading manifest.", "path", path)

	var desc descriptor
	switch filepath.Ext(path) {
	case ".hcl":
		err = decodeHCL(path, location, &desc, false)
	case ".json":
		err = decodeHCL(path, location, &desc, true)
	default:
		err = decodeYAML(path, &desc)
	}
	if err != nil {
		return nil, err
	}

	desc.trim()
	if err := l.validate.Struct(&desc); err != nil {
		return nil, malformedf(path, "%s", describeValidation(err))
	}

	typ, ok := target.ParseType(desc.Type)
	if !ok {
		return nil, &Error{Kind: ErrUnknownTargetType, Path: path, Msg: fmt.Sprintf("%q (want lib, app, kernel or module)", desc.Type)}
	}

	t := &target.Target{
		ID:           desc.ID,
		Type:         typ,
		Location:     location,
		Dependencies: target.NormalizeDependencies(desc.Dependencies),
		SourceRoots:  sourceRoots(location, desc.Sources),
		Extensions:   l.extensions,
		ManifestPath: path,
	}
	logger.Debug("Manifest loaded.", "id", t.ID, "type", t.Type.String(), "dependencies", t.Dependencies)
	return t, nil
}

func decodeHCL(path, location string, desc *descriptor, isJSON bool) error {
	parser := hclparse.NewParser()
	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)
	if isJSON {
		file, diags = parser.ParseJSONFile(path)
	} else {
		file, diags = parser.ParseHCLFile(path)
	}
	if diags.HasErrors() {
		return malformedf(path, "parse: %s", diags.Error())
	}

	diags = gohcl.DecodeBody(file.Body, EvalContext(location), desc)
	if diags.HasErrors() {
		return malformedf(path, "decode: %s", diags.Error())
	}
	return nil
}

func decodeYAML(path string, desc *descriptor) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, desc); err != nil {
		return malformedf(path, "parse: %s", err)
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("missing required field %q", fe.Field()))
	}
	return strings.Join(msgs, "; ")
}

func sourceRoots(location string, declared []string) []string {
	if len(declared) == 0 {
		if dir := filepath.Join(location, DefaultSourceDir); fsutil.IsDir(dir) {
			return []string{dir}
		}
		return []string{location}
	}
	roots := make([]string, 0, len(declared))
	for _, d := range declared {
		if !filepath.IsAbs(d) {
			d = filepath.Join(location, d)
		}
		roots = append(roots, filepath.Clean(d))
	}
	return roots
}
