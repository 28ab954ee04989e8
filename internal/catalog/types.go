package catalog

// File is the top-level YAML document describing the tool catalog.
type File struct {
	// Tools lists all tool declarations in handshake order.
	Tools []ToolConfig `yaml:"tools"`
}

// ToolConfig declares a tool exposed by the server.
type ToolConfig struct {
	// Name is the tool name.
	Name string `yaml:"name"`
	// Title is the human-friendly tool title.
	Title string `yaml:"title"`
	// Description explains the tool for the agent.
	Description string `yaml:"description"`
	// InputSchema defines JSON Schema for tool input.
	InputSchema map[string]any `yaml:"input_schema"`
}
