package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/codex-k8s/astro-mcp-server/internal/protocol"
)

// Tool is a validated catalog entry.
type Tool struct {
	// Name is the tool name.
	Name string
	// Title is the optional display title.
	Title string
	// Description explains the tool.
	Description string
	// InputSchema is the normalized JSON Schema of the tool input.
	InputSchema map[string]any
}

// Catalog is the static, ordered tool registry. It is read-only after Load.
type Catalog struct {
	tools       []Tool
	descriptors []protocol.ToolDescriptor
}

// LoadFile reads and parses a catalog file from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Load(data)
}

// Load parses YAML bytes into a Catalog and validates it.
func Load(data []byte) (*Catalog, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := normalizeFile(&file); err != nil {
		return nil, err
	}
	if err := Validate(&file); err != nil {
		return nil, err
	}

	tools := make([]Tool, 0, len(file.Tools))
	descriptors := make([]protocol.ToolDescriptor, 0, len(file.Tools))
	for i, cfg := range file.Tools {
		if err := checkSchema(cfg.InputSchema); err != nil {
			return nil, fmt.Errorf("tools[%d].input_schema: %w", i, err)
		}
		tools = append(tools, Tool{
			Name:        cfg.Name,
			Title:       cfg.Title,
			Description: cfg.Description,
			InputSchema: cfg.InputSchema,
		})
		descriptors = append(descriptors, protocol.ToolDescriptor{
			Name:        cfg.Name,
			Description: cfg.Description,
			Parameters:  cfg.InputSchema,
		})
	}
	return &Catalog{tools: tools, descriptors: descriptors}, nil
}

// Descriptors returns a copy of the handshake snapshot in catalog order.
func (c *Catalog) Descriptors() []protocol.ToolDescriptor {
	if c == nil {
		return nil
	}
	out := make([]protocol.ToolDescriptor, len(c.descriptors))
	for i, d := range c.descriptors {
		d.Parameters = cloneMap(d.Parameters)
		out[i] = d
	}
	return out
}

// Tools returns a copy of the validated catalog entries in order.
func (c *Catalog) Tools() []Tool {
	if c == nil {
		return nil
	}
	out := make([]Tool, len(c.tools))
	for i, tool := range c.tools {
		tool.InputSchema = cloneMap(tool.InputSchema)
		out[i] = tool
	}
	return out
}

// Names returns the tool names in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.tools))
	for i, tool := range c.tools {
		names[i] = tool.Name
	}
	return names
}

// Len returns the number of tools.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tools)
}

// checkSchema requires an object schema that jsonschema can resolve.
func checkSchema(raw map[string]any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return fmt.Errorf("decode schema: %w", err)
	}
	if schema.Type != "object" {
		return fmt.Errorf("schema type must be object, got %q", schema.Type)
	}
	if _, err := schema.Resolve(nil); err != nil {
		return fmt.Errorf("resolve schema: %w", err)
	}
	return nil
}
