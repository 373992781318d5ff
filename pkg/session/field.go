package session

import (
	"fmt"
	"strings"
)

// FieldType selects the prompt used for a field.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldArray   FieldType = "array"
)

// Field describes one prompted form field. Array fields hold records whose
// columns are described by Items; an array without Items collects strings.
type Field struct {
	Name  string
	Label string
	Help  string
	Type  FieldType
	Items []Field
}

func (f Field) label() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}

func validateFields(fields []Field, parent string) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("session: field without name under %q", parent)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("session: duplicate field %q under %q", name, parent)
		}
		seen[name] = struct{}{}

		switch field.Type {
		case FieldString, FieldNumber, FieldBoolean, "":
			if len(field.Items) > 0 {
				return fmt.Errorf("session: field %q has items but is not an array", name)
			}
		case FieldArray:
			for _, item := range field.Items {
				if item.Type == FieldArray {
					return fmt.Errorf("session: nested array %q in %q is not supported", item.Name, name)
				}
			}
			if err := validateFields(field.Items, name); err != nil {
				return err
			}
		default:
			return fmt.Errorf("session: field %q has unknown type %q", name, field.Type)
		}
	}
	return nil
}
