// Package api holds the static table mapping logical operations to the
// platform's web endpoints. The table ships embedded in the binary and is
// parsed once; callers receive it as an immutable value instead of reading
// ambient state.
package api

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

// Endpoint describes a single remote operation.
type Endpoint struct {
	URL    string `yaml:"url"`
	Method string `yaml:"method"`
}

// Table is keyed module → group → operation name.
type Table map[string]map[string]map[string]Endpoint

//go:embed endpoints.yaml
var embedded []byte

var (
	defaultOnce  sync.Once
	defaultTable Table
)

// Default returns the embedded endpoint table.
func Default() Table {
	defaultOnce.Do(func() {
		table, err := Parse(embedded)
		if err != nil {
			panic(fmt.Sprintf("api: embedded endpoint table: %v", err))
		}
		defaultTable = table
	})
	return defaultTable
}

// Parse decodes an endpoint table from YAML. Tests use it to point a client
// at a local server.
func Parse(data []byte) (Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse endpoint table: %w", err)
	}
	return table, nil
}

// Lookup resolves a dotted "module.group.name" key.
func (t Table) Lookup(key string) (Endpoint, bool) {
	parts := strings.SplitN(key, ".", 3)
	if len(parts) != 3 {
		return Endpoint{}, false
	}
	endpoint, ok := t[parts[0]][parts[1]][parts[2]]
	return endpoint, ok
}
