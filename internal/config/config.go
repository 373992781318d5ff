package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/session"
)

// File is the on-disk session description read by formstate-cli.
type File struct {
	Mode          string         `yaml:"mode"`
	KeyToCheck    string         `yaml:"key_to_check"`
	Delay         time.Duration  `yaml:"delay"`
	Output        string         `yaml:"output"`
	Sanitize      bool           `yaml:"sanitize"`
	InitialValues map[string]any `yaml:"initial_values"`
	Fields        []FieldFile    `yaml:"fields"`
}

// FieldFile describes one prompted field.
type FieldFile struct {
	Name  string      `yaml:"name"`
	Label string      `yaml:"label"`
	Help  string      `yaml:"help"`
	Type  string      `yaml:"type"`
	Items []FieldFile `yaml:"items"`
}

var fieldTypes = []any{"", "string", "number", "boolean", "array"}

// Validate implements validation.Validatable.
func (f File) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Mode, validation.In("", "create", "update")),
		validation.Field(&f.KeyToCheck, validation.When(f.Mode == "update", validation.Required)),
		validation.Field(&f.Delay, validation.Min(time.Duration(0))),
		validation.Field(&f.Output, validation.In("", "json", "yaml", "pretty")),
		validation.Field(&f.Fields, validation.Required),
	)
}

// Validate implements validation.Validatable.
func (f FieldFile) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.Type, validation.In(fieldTypes...)),
		validation.Field(&f.Items, validation.When(f.Type != "array", validation.Empty)),
	)
}

// Load reads, normalises and validates the session file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes raw YAML; source only labels errors.
func Parse(raw []byte, source string) (File, error) {
	var cfg File
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return File{}, fmt.Errorf("config parse failed (%s): %w", source, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return File{}, fmt.Errorf("config invalid (%s): %w", source, err)
	}
	return cfg, nil
}

func (f *File) normalize() {
	f.Mode = strings.ToLower(strings.TrimSpace(f.Mode))
	f.KeyToCheck = strings.TrimSpace(f.KeyToCheck)
	f.Output = strings.ToLower(strings.TrimSpace(f.Output))
	for i := range f.Fields {
		f.Fields[i].normalize()
	}
}

func (f *FieldFile) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	for i := range f.Items {
		f.Items[i].normalize()
	}
}

// EagerOptions converts the mode settings. The second result is false when no
// mode is configured and eager validation stays off.
func (f File) EagerOptions() (formstate.EagerOptions, bool) {
	switch f.Mode {
	case "create":
		return formstate.EagerOptions{Mode: formstate.ModeCreate, Delay: f.Delay}, true
	case "update":
		return formstate.EagerOptions{
			Mode:              formstate.ModeUpdate,
			KeyToCheckFetched: f.KeyToCheck,
			Delay:             f.Delay,
		}, true
	default:
		return formstate.EagerOptions{}, false
	}
}

// OutputFormat returns the configured serialization format, defaulting to
// JSON.
func (f File) OutputFormat() session.OutputFormat {
	if f.Output == "" {
		return session.OutputFormatJSON
	}
	return session.OutputFormat(f.Output)
}

// SessionFields converts the field descriptions.
func (f File) SessionFields() []session.Field {
	return convertFields(f.Fields)
}

func convertFields(in []FieldFile) []session.Field {
	if len(in) == 0 {
		return nil
	}
	out := make([]session.Field, 0, len(in))
	for _, field := range in {
		out = append(out, session.Field{
			Name:  field.Name,
			Label: field.Label,
			Help:  field.Help,
			Type:  session.FieldType(field.Type),
			Items: convertFields(field.Items),
		})
	}
	return out
}
