package catalog

import "fmt"

// normalizeFile rewrites every input schema into JSON-encodable values.
// YAML mappings with non-string keys decode as map[any]any, which
// encoding/json rejects.
func normalizeFile(file *File) error {
	for i := range file.Tools {
		if file.Tools[i].InputSchema == nil {
			continue
		}
		value, err := jsonValue(file.Tools[i].InputSchema, "input_schema")
		if err != nil {
			return fmt.Errorf("tools[%d].%w", i, err)
		}
		file.Tools[i].InputSchema = value.(map[string]any)
	}
	return nil
}

func jsonValue(value any, path string) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			converted, err := jsonValue(item, path+"."+key)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			name, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("%s: key %v is %T, want string", path, key, key)
			}
			converted, err := jsonValue(item, path+"."+name)
			if err != nil {
				return nil, err
			}
			out[name] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			converted, err := jsonValue(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	default:
		return value, nil
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
