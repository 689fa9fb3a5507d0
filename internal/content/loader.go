// internal/content/loader.go
//
// YAML content packs, checked against the embedded JSON schema before they
// are normalized into paths.

package content

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed catalog/*.yaml
var embeddedCatalogFS embed.FS

//go:embed schema/pack.schema.json
var packSchemaSource string

const packSchemaURL = "pack.schema.json"

var (
	packSchemaOnce sync.Once
	packSchema     *jsonschema.Schema
	packSchemaErr  error
)

// PackFile pairs the paths parsed from one content pack with its source.
type PackFile struct {
	Paths  []Path
	Source string
}

type packDocument struct {
	Paths []Path `yaml:"paths"`
}

func compiledPackSchema() (*jsonschema.Schema, error) {
	packSchemaOnce.Do(func() {
		packSchema, packSchemaErr = jsonschema.CompileString(packSchemaURL, packSchemaSource)
	})
	return packSchema, packSchemaErr
}

// ParsePackYAML validates a content pack against the pack schema and decodes
// its paths. Each path is normalized and checked before it is returned.
func ParsePackYAML(data []byte) ([]Path, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("content: pack payload is empty")
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("content: decode pack: %w", err)
	}
	if err := validatePack(raw); err != nil {
		return nil, err
	}
	var doc packDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("content: decode pack: %w", err)
	}
	paths := make([]Path, 0, len(doc.Paths))
	for i, p := range doc.Paths {
		normalized := p.Normalized()
		if err := normalized.Validate(); err != nil {
			return nil, fmt.Errorf("content: paths[%d]: %w", i, err)
		}
		paths = append(paths, normalized)
	}
	return paths, nil
}

// validatePack round-trips the YAML tree through JSON so the schema sees the
// same value shapes it would for a JSON document.
func validatePack(raw any) error {
	schema, err := compiledPackSchema()
	if err != nil {
		return fmt.Errorf("content: compile pack schema: %w", err)
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("content: pack is not representable as JSON: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("content: re-decode pack: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("content: pack does not match schema: %w", err)
	}
	return nil
}

// LoadPackFile reads a YAML content pack from disk.
func LoadPackFile(path string) (PackFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return PackFile{}, fmt.Errorf("content: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return PackFile{}, fmt.Errorf("content: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return PackFile{}, fmt.Errorf("content: read %s: %w", path, err)
	}
	paths, err := ParsePackYAML(data)
	if err != nil {
		return PackFile{}, fmt.Errorf("content: %s: %w", path, err)
	}
	return PackFile{Paths: paths, Source: filepath.Clean(path)}, nil
}

// LoadPackDir scans a directory for *.yaml and *.go content packs.
// Missing directories are treated as "no packs" to simplify startup.
func LoadPackDir(dir string) ([]PackFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("content: read %s: %w", trimmed, err)
	}
	var packs []PackFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !isPathPackFile(name) {
			continue
		}
		pack, err := LoadPackFile(filepath.Join(trimmed, name))
		if err != nil {
			return nil, err
		}
		packs = append(packs, pack)
	}
	scripted, err := LoadScriptDir(trimmed)
	if err != nil {
		return nil, err
	}
	packs = append(packs, scripted...)
	if len(packs) == 0 {
		return nil, nil
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].Source < packs[j].Source })
	return packs, nil
}

// Default loads the embedded catalog shipped with the game.
func Default() (*Catalog, error) {
	packs, err := embeddedPacks()
	if err != nil {
		return nil, err
	}
	return catalogFromPacks(packs)
}

// Load builds a catalog from the embedded packs (when includeDefault is set)
// followed by every pack found in dirs, in order.
func Load(includeDefault bool, dirs ...string) (*Catalog, error) {
	var packs []PackFile
	if includeDefault {
		embedded, err := embeddedPacks()
		if err != nil {
			return nil, err
		}
		packs = append(packs, embedded...)
	}
	for _, dir := range dirs {
		found, err := LoadPackDir(dir)
		if err != nil {
			return nil, err
		}
		packs = append(packs, found...)
	}
	if len(packs) == 0 {
		return nil, fmt.Errorf("content: no paths available")
	}
	return catalogFromPacks(packs)
}

func embeddedPacks() ([]PackFile, error) {
	names, err := fs.Glob(embeddedCatalogFS, "catalog/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("content: glob embedded catalog: %w", err)
	}
	sort.Strings(names)
	packs := make([]PackFile, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(embeddedCatalogFS, name)
		if err != nil {
			return nil, fmt.Errorf("content: read embedded %s: %w", name, err)
		}
		paths, err := ParsePackYAML(data)
		if err != nil {
			return nil, fmt.Errorf("content: embedded %s: %w", name, err)
		}
		packs = append(packs, PackFile{Paths: paths, Source: name})
	}
	return packs, nil
}

func catalogFromPacks(packs []PackFile) (*Catalog, error) {
	var all []Path
	for _, pack := range packs {
		all = append(all, pack.Paths...)
	}
	catalog, err := NewCatalog(all...)
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// isPathPackFile skips files other packages own, such as missions.yaml.
func isPathPackFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(lower, "missions.") {
		return false
	}
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
