package configs

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// DefaultCatalog is the embedded tool catalog used when no file is given.
const DefaultCatalog = "tools.yaml"

//go:embed *.yaml
var embeddedConfigs embed.FS

// Names returns the list of embedded YAML filenames.
func Names() []string {
	entries, err := fs.Glob(embeddedConfigs, "*.yaml")
	if err != nil {
		return nil
	}
	sort.Strings(entries)
	return entries
}

// Load returns the embedded YAML file by filename.
func Load(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("embedded config name is empty")
	}
	data, err := fs.ReadFile(embeddedConfigs, name)
	if err != nil {
		return nil, fmt.Errorf("read embedded config %q: %w", name, err)
	}
	return data, nil
}
