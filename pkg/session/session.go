package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(s *Session) {
		if format != "" {
			s.format = format
		}
	}
}

// Session prompts every configured field and writes the answers through a
// Synchronizer.
type Session struct {
	sync   *formstate.Synchronizer
	fields []Field
	driver PromptDriver
	format OutputFormat
}

// New validates fields and builds a session writing through sync.
func New(sync *formstate.Synchronizer, fields []Field, options ...Option) (*Session, error) {
	if sync == nil {
		return nil, errors.New("session: synchronizer is nil")
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	if err := validateFields(fields, ""); err != nil {
		return nil, err
	}

	s := &Session{
		sync:   sync,
		fields: fields,
		format: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver()
	}
	if !s.format.valid() {
		return nil, fmt.Errorf("session: unknown output format %q", s.format)
	}
	return s, nil
}

// ContentType reports the media type of the payload returned by Run.
func (s *Session) ContentType() string {
	return s.format.contentType()
}

// Run prompts every field, waits for the store to settle, normalises the
// collected values and serialises them.
func (s *Session) Run(ctx context.Context) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("session: context is required")
	}
	// Eager validation may still be pending; prompts read its result.
	if err := s.sync.Wait(ctx); err != nil {
		return nil, err
	}

	for _, field := range s.fields {
		if err := s.promptField(ctx, field); err != nil {
			return nil, err
		}
		if err := s.sync.Wait(ctx); err != nil {
			return nil, err
		}
	}

	values := s.sync.Normalize(s.sync.Store().Values())
	if !s.sync.ValuesChanged() {
		_ = s.driver.Info(ctx, "No changes from the initial values.")
	}
	return s.format.serialize(values)
}

func (s *Session) promptField(ctx context.Context, field Field) error {
	current := s.sync.Store().Values()[field.Name]
	switch field.Type {
	case FieldArray:
		return s.promptArray(ctx, field, current)
	default:
		value, err := s.ask(ctx, field, field.label(), current)
		if err != nil {
			return err
		}
		s.sync.UpdateByNameValue(field.Name, value)
		return nil
	}
}

// promptArray edits existing records first, then offers to append more.
func (s *Session) promptArray(ctx context.Context, field Field, current any) error {
	existing, ok := current.([]any)
	if !ok {
		s.sync.UpdateByNameValue(field.Name, []any{})
		if err := s.sync.Wait(ctx); err != nil {
			return err
		}
	}

	if len(field.Items) > 0 {
		for i, item := range existing {
			if err := s.promptRecord(ctx, field, i, item); err != nil {
				return err
			}
		}
	}

	for {
		more, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add %s entry?", field.label()),
			Help:    field.Help,
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		index := len(s.itemsOf(field.Name))
		if len(field.Items) == 0 {
			value, err := s.ask(ctx, Field{Name: field.Name, Type: FieldString}, fmt.Sprintf("%s #%d", field.label(), index+1), nil)
			if err != nil {
				return err
			}
			if err := s.sync.AddItem(field.Name, value); err != nil {
				return err
			}
			if err := s.sync.Wait(ctx); err != nil {
				return err
			}
			continue
		}

		if err := s.sync.AddItem(field.Name, blankRecord(field.Items)); err != nil {
			return err
		}
		if err := s.sync.Wait(ctx); err != nil {
			return err
		}
		if err := s.promptRecord(ctx, field, index, nil); err != nil {
			return err
		}
	}
}

// promptRecord asks for every column of the record at index. Unchanged
// answers only mark the column touched.
func (s *Session) promptRecord(ctx context.Context, field Field, index int, item any) error {
	record, _ := item.(map[string]any)
	for _, column := range field.Items {
		previous, had := record[column.Name]
		label := fmt.Sprintf("%s #%d %s", field.label(), index+1, column.label())
		value, err := s.ask(ctx, column, label, previous)
		if err != nil {
			return err
		}

		if had && fmt.Sprint(previous) == fmt.Sprint(value) {
			err = s.sync.MarkItemFieldTouched(field.Name, index, column.Name)
		} else {
			err = s.sync.UpdateItemField(field.Name, index, column.Name, value)
		}
		if err != nil {
			return err
		}
		if err := s.sync.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) ask(ctx context.Context, field Field, label string, current any) (any, error) {
	switch field.Type {
	case FieldBoolean:
		def, _ := current.(bool)
		return s.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: def,
			Help:    field.Help,
		})

	case FieldNumber:
		raw, err := s.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   formatDefault(current),
			Help:      field.Help,
			Validator: validateNumber,
		})
		if err != nil {
			return nil, err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return "", nil
		}
		num, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", field.Name, err))
			return s.ask(ctx, field, label, current)
		}
		return num, nil

	default:
		return s.driver.Input(ctx, InputConfig{
			Message: label,
			Default: formatDefault(current),
			Help:    field.Help,
		})
	}
}

func (s *Session) itemsOf(name string) []any {
	items, _ := s.sync.Store().Values()[name].([]any)
	return items
}

func blankRecord(columns []Field) map[string]any {
	record := make(map[string]any, len(columns))
	for _, column := range columns {
		switch column.Type {
		case FieldBoolean:
			record[column.Name] = false
		default:
			record[column.Name] = ""
		}
	}
	return record
}

func validateNumber(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return fmt.Errorf("%q is not a number", raw)
	}
	return nil
}

func formatDefault(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}
