// Package docs turns the merged schema into the static page payloads the
// portal serves: per-endpoint documents with synthesized JSON examples,
// per-app indexes, and permission pages.
package docs

// ExampleFor recursively synthesizes a JSON example for a schema node.
// $ref and allOf are resolved against components, explicit enum / example /
// default values win over synthesis, and readOnly/writeOnly properties are
// skipped according to direction (forResponse).
func ExampleFor(schema map[string]any, components map[string]any, forResponse bool) any {
	if schema == nil {
		return nil
	}

	schema = resolveRef(schema, components)
	schema = mergeAllOf(schema, components)

	if value, ok := explicitValue(schema); ok {
		return value
	}

	schemaType, _ := schema["type"].(string)
	switch schemaType {
	case "array":
		items, _ := schema["items"].(map[string]any)
		return []any{ExampleFor(items, components, forResponse)}
	case "integer":
		return 0
	case "number":
		return 0.0
	case "boolean":
		return true
	case "string":
		return "string"
	default:
		return objectExample(schema, components, forResponse)
	}
}

// resolveRef replaces a {"$ref": ...} node with the referenced component
// schema. Sibling keys of $ref override the target's keys.
func resolveRef(schema, components map[string]any) map[string]any {
	ref, ok := schema["$ref"].(string)
	if !ok {
		return schema
	}

	target, _ := componentSchema(components, ref)
	resolved := make(map[string]any, len(target)+len(schema))
	for k, v := range target {
		resolved[k] = v
	}
	for k, v := range schema {
		if k != "$ref" {
			resolved[k] = v
		}
	}
	return resolved
}

// mergeAllOf flattens an allOf composition into a single schema. Parts are
// merged in order; keys on the composed schema itself win last.
func mergeAllOf(schema, components map[string]any) map[string]any {
	parts, ok := schema["allOf"].([]any)
	if !ok {
		return schema
	}

	merged := make(map[string]any)
	for _, part := range parts {
		partMap, ok := part.(map[string]any)
		if !ok {
			continue
		}
		for k, v := range resolveRef(partMap, components) {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		return schema
	}

	for k, v := range schema {
		if k != "allOf" {
			merged[k] = v
		}
	}
	return merged
}

// explicitValue returns a value the schema states outright: the first enum
// member, then example, then default. Array defaults are skipped when an
// items schema exists so a real element example gets synthesized instead.
func explicitValue(schema map[string]any) (any, bool) {
	if enum, ok := schema["enum"].([]any); ok && len(enum) > 0 {
		return enum[0], true
	}
	if example, ok := schema["example"]; ok {
		return example, true
	}
	if def, ok := schema["default"]; ok {
		if t, _ := schema["type"].(string); t == "array" {
			if _, hasItems := schema["items"]; hasItems {
				return nil, false
			}
		}
		return def, true
	}
	return nil, false
}

func objectExample(schema, components map[string]any, forResponse bool) map[string]any {
	props, _ := schema["properties"].(map[string]any)
	result := make(map[string]any, len(props))
	for name, raw := range props {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if skipProperty(prop, forResponse) {
			continue
		}
		result[name] = ExampleFor(prop, components, forResponse)
	}
	return result
}

// skipProperty drops writeOnly properties from response examples and
// readOnly properties from request examples.
func skipProperty(prop map[string]any, forResponse bool) bool {
	if forResponse {
		skip, _ := prop["writeOnly"].(bool)
		return skip
	}
	skip, _ := prop["readOnly"].(bool)
	return skip
}

// componentSchema resolves a "#/components/schemas/Name" reference.
func componentSchema(components map[string]any, ref string) (map[string]any, bool) {
	const prefix = "#/components/schemas/"
	if len(ref) <= len(prefix) || ref[:len(prefix)] != prefix {
		return nil, false
	}
	schemas, _ := components["schemas"].(map[string]any)
	target, ok := schemas[ref[len(prefix):]].(map[string]any)
	return target, ok
}
