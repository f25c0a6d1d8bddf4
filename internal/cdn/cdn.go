package cdn

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"slices"
)

// ErrUnknownAsset is returned for names missing from the registry.
var ErrUnknownAsset = errors.New("unknown asset")

// DefaultRegistry lists the assets the service is allowed to serve, keyed by
// logical name, with paths relative to the CDN root.
var DefaultRegistry = map[string]string{
	"changelogs": "dev/changelogs.md",
}

// Assets reads registered files from a root filesystem. Only names in the
// registry can be read, so callers never control the path.
type Assets struct {
	root     fs.FS
	registry map[string]string
}

// New returns Assets serving registry entries out of root.
func New(root fs.FS, registry map[string]string) *Assets {
	return &Assets{root: root, registry: maps.Clone(registry)}
}

// Path resolves a logical asset name to its path under the root.
func (a *Assets) Path(name string) (string, error) {
	p, ok := a.registry[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAsset, name)
	}
	return p, nil
}

// Read returns the raw contents of the named asset.
func (a *Assets) Read(name string) ([]byte, error) {
	p, err := a.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(a.root, p)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}
	return data, nil
}

// Names returns the registered asset names in sorted order.
func (a *Assets) Names() []string {
	return slices.Sorted(maps.Keys(a.registry))
}
