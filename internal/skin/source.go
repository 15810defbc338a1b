// SPDX-License-Identifier: MIT
package skin

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"vumeter/internal/log"
)

// DirSource loads skins from a directory tree: each skin is a
// subdirectory holding a skin.yaml plus its image assets.
type DirSource struct {
	root   string
	logger *log.Logger
}

// NewDirSource returns a Source over the given skins directory.
func NewDirSource(root string, logger *log.Logger) *DirSource {
	if logger == nil {
		logger = log.Discard()
	}
	return &DirSource{root: root, logger: logger.Component("skins")}
}

// Names lists the available skins, sorted. A subdirectory counts as a
// skin when it contains a skin.yaml.
func (s *DirSource) Names() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read skins directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, e.Name(), "skin.yaml")); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load parses and validates one skin by directory name.
func (s *DirSource) Load(name string) (*Descriptor, error) {
	path := filepath.Join(s.root, name, "skin.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skin %q: %w", name, err)
	}
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse skin %q: %w", name, err)
	}
	if d.Name == "" {
		d.Name = name
	}
	if err := Validate(&d, s.logger); err != nil {
		return nil, err
	}
	return &d, nil
}

// Assets returns an asset resolver rooted at the skin's directory.
func (s *DirSource) Assets(name string) Assets {
	return &dirAssets{dir: filepath.Join(s.root, name)}
}

type dirAssets struct {
	dir string
}

// Image decodes the named asset into RGBA. The name may omit the
// extension; .png and .jpg are tried in that order.
func (a *dirAssets) Image(name string) (*image.RGBA, error) {
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = []string{name + ".png", name + ".jpg", name + ".jpeg"}
	}
	var lastErr error
	for _, c := range candidates {
		f, err := os.Open(filepath.Join(a.dir, filepath.Clean(c)))
		if err != nil {
			lastErr = err
			continue
		}
		src, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode asset %q: %w", c, err)
		}
		return toRGBA(src), nil
	}
	return nil, fmt.Errorf("asset %q not found: %w", name, lastErr)
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// MemSource is an in-memory Source used by tests and the skin browser
// preview. Descriptors are stored pre-validated.
type MemSource struct {
	skins map[string]*Descriptor
}

// NewMemSource returns a MemSource over the given descriptors.
func NewMemSource(descriptors ...*Descriptor) *MemSource {
	m := &MemSource{skins: make(map[string]*Descriptor, len(descriptors))}
	for _, d := range descriptors {
		m.skins[d.Name] = d
	}
	return m
}

// Names lists the stored skins, sorted.
func (m *MemSource) Names() ([]string, error) {
	names := make([]string, 0, len(m.skins))
	for n := range m.skins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Load returns the stored descriptor by name.
func (m *MemSource) Load(name string) (*Descriptor, error) {
	d, ok := m.skins[name]
	if !ok {
		return nil, fmt.Errorf("unknown skin %q (have: %s)", name, strings.Join(keys(m.skins), ", "))
	}
	return d, nil
}

func keys(m map[string]*Descriptor) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
