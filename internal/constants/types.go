package constants

// Server identity.
const (
	ServerName    = "astro-mcp-server"
	ServerVersion = "1.0.0"
)

// Tool names served by the dispatcher.
const (
	ToolValidate = "validate"
	ToolProfile  = "profile"
	ToolExplore  = "explore"
	ToolCompare  = "compare"
	ToolDaily    = "daily"
	ToolLifePath = "lifepath"
)

// Explore topics.
const (
	TopicCareer = "career"
)

// Audit event types.
const (
	EventToolCall     = "tool_call"
	EventToolOK       = "tool_ok"
	EventToolRejected = "tool_rejected"
	EventToolError    = "tool_error"
)
