// internal/content/script.go
//
// Go script packs, evaluated with yaegi. A script exposes Paths() and the
// result goes through the same schema as YAML packs.

package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"gopkg.in/yaml.v3"
)

const scriptPathsFuncName = "Paths"

// LoadScriptDir evaluates every .go file in dir and collects the paths each
// one declares through a Paths() ([]map[string]any, error) function.
func LoadScriptDir(dir string) ([]PackFile, error) {
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
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".go" {
			continue
		}
		pack, err := LoadScriptFile(filepath.Join(trimmed, entry.Name()))
		if err != nil {
			return nil, err
		}
		packs = append(packs, pack)
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].Source < packs[j].Source })
	return packs, nil
}

// LoadScriptFile interprets one Go content script. The returned maps go
// through the same schema and validation as YAML packs.
func LoadScriptFile(path string) (PackFile, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return PackFile{}, fmt.Errorf("content: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return PackFile{}, fmt.Errorf("content: %s is empty", path)
	}
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return PackFile{}, fmt.Errorf("content: load interpreter symbols: %w", err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return PackFile{}, fmt.Errorf("content: interpret %s: %w", path, err)
	}
	fnValue, err := i.Eval(scriptPathsFuncName)
	if err != nil {
		return PackFile{}, fmt.Errorf("content: %s must define %s() ([]map[string]any, error): %w", path, scriptPathsFuncName, err)
	}
	raw, err := invokePathsFunc(fnValue)
	if err != nil {
		return PackFile{}, fmt.Errorf("content: %s: %w", path, err)
	}
	payload, err := yaml.Marshal(map[string]any{"paths": raw})
	if err != nil {
		return PackFile{}, fmt.Errorf("content: %s: encode paths: %w", path, err)
	}
	paths, err := ParsePackYAML(payload)
	if err != nil {
		return PackFile{}, fmt.Errorf("content: %s: %w", path, err)
	}
	return PackFile{Paths: paths, Source: filepath.Clean(path)}, nil
}

func invokePathsFunc(value reflect.Value) ([]map[string]any, error) {
	if !value.IsValid() {
		return nil, fmt.Errorf("missing %s function", scriptPathsFuncName)
	}
	if value.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", scriptPathsFuncName)
	}
	results := value.Call(nil)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("%s must return ([]map[string]any[, error])", scriptPathsFuncName)
	}
	if len(results) == 2 && !results[1].IsNil() {
		if e, ok := results[1].Interface().(error); ok && e != nil {
			return nil, e
		}
		return nil, fmt.Errorf("%s returned non-error second value", scriptPathsFuncName)
	}
	defsVal := results[0]
	if defs, ok := defsVal.Interface().([]map[string]any); ok {
		return defs, nil
	}
	if defsVal.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%s must return []map[string]any", scriptPathsFuncName)
	}
	out := make([]map[string]any, defsVal.Len())
	for idx := 0; idx < defsVal.Len(); idx++ {
		m, ok := defsVal.Index(idx).Interface().(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not map[string]any", scriptPathsFuncName, idx)
		}
		out[idx] = m
	}
	return out, nil
}
