package catalog

import (
	"fmt"
	"strings"
)

const maxToolNameLength = 64

// Validate verifies required fields and name uniqueness.
func Validate(file *File) error {
	if file == nil {
		return fmt.Errorf("catalog is nil")
	}
	if len(file.Tools) == 0 {
		return fmt.Errorf("catalog declares no tools")
	}

	names := map[string]struct{}{}
	for i, tool := range file.Tools {
		if strings.TrimSpace(tool.Name) == "" {
			return fmt.Errorf("tools[%d].name is required", i)
		}
		if err := validateName(tool.Name); err != nil {
			return fmt.Errorf("tools[%d].name: %w", i, err)
		}
		if _, exists := names[tool.Name]; exists {
			return fmt.Errorf("duplicate tool name: %s", tool.Name)
		}
		names[tool.Name] = struct{}{}
		if strings.TrimSpace(tool.Description) == "" {
			return fmt.Errorf("tools[%d].description is required", i)
		}
		if tool.InputSchema == nil {
			return fmt.Errorf("tools[%d].input_schema is required", i)
		}
	}
	return nil
}

func validateName(name string) error {
	if len(name) > maxToolNameLength {
		return fmt.Errorf("must not exceed %d characters", maxToolNameLength)
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '_' || char == '-' {
			continue
		}
		return fmt.Errorf("must contain only alphanumeric characters, underscores, or hyphens")
	}
	return nil
}
