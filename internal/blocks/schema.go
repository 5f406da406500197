package blocks

// PropertySchema renders the field list of a definition as a JSON schema
// object. Undeclared keys are allowed so legacy overrides keep loading.
func PropertySchema(definition Definition) map[string]any {
	properties := make(map[string]any, len(definition.Properties))
	required := []any{}
	for _, field := range definition.Properties {
		properties[field.Name] = fieldSchema(field)
		if field.Required {
			required = append(required, field.Name)
		}
	}
	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func fieldSchema(field PropertyField) map[string]any {
	switch field.Type {
	case FieldSelect:
		values := make([]any, 0, len(field.Options))
		for _, option := range field.Options {
			values = append(values, option.Value)
		}
		return map[string]any{"type": "string", "enum": values}
	case FieldNumber:
		schema := map[string]any{"type": "number"}
		if field.Min != nil {
			schema["minimum"] = *field.Min
		}
		if field.Max != nil {
			schema["maximum"] = *field.Max
		}
		return schema
	case FieldBoolean:
		return map[string]any{"type": "boolean"}
	case FieldProductRef, FieldCTARef:
		return map[string]any{"type": []any{"string", "null"}}
	case FieldProductRefs:
		return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	default:
		return map[string]any{"type": "string"}
	}
}
