package intake

import (
	"context"

	"mailroom/internal/apperrors"
	"mailroom/internal/models"
	"mailroom/internal/utils/logger"
)

// FieldKind is one custom field of a list schema.
type FieldKind interface {
	// Own maps key to this field's column when the field itself stores it.
	Own(key string) (column string, ok bool)
	// Nested maps key to the column of one of this field's options.
	Nested(key string) (column string, ok bool)
	// Collect copies this field's values from input into values, keyed by column.
	Collect(input Input, values map[string]string)
	// Keys lists every input key claimed by this field.
	Keys() []string
}

type textField struct {
	key    string
	column string
}

func (f textField) Own(key string) (string, bool) {
	if key != f.key || f.column == "" {
		return "", false
	}
	return f.column, true
}

func (textField) Nested(string) (string, bool) { return "", false }

func (f textField) Collect(input Input, values map[string]string) {
	if v, ok := input.Get(f.key); ok && f.column != "" {
		values[f.column] = v
	}
}

func (f textField) Keys() []string { return []string{f.key} }

type optionField struct {
	key    string
	column string
	// boolean options store "1" or "" instead of the raw value.
	boolean bool
}

func (f optionField) Own(key string) (string, bool) {
	if key != f.key || f.column == "" {
		return "", false
	}
	return f.column, true
}

func (optionField) Nested(string) (string, bool) { return "", false }

func (f optionField) Collect(input Input, values map[string]string) {
	v, ok := input.Get(f.key)
	if !ok || f.column == "" {
		return
	}
	if f.boolean {
		v = EncodeOption(v)
	}
	values[f.column] = v
}

func (f optionField) Keys() []string { return []string{f.key} }

type groupField struct {
	key     string
	options []optionField
}

func (groupField) Own(string) (string, bool) { return "", false }

func (g groupField) Nested(key string) (string, bool) {
	for _, opt := range g.options {
		if col, ok := opt.Own(key); ok {
			return col, true
		}
	}
	return "", false
}

func (g groupField) Collect(input Input, values map[string]string) {
	for _, opt := range g.options {
		opt.Collect(input, values)
	}
}

func (g groupField) Keys() []string {
	keys := []string{g.key}
	for _, opt := range g.options {
		keys = append(keys, opt.key)
	}
	return keys
}

// Schema is the ordered custom field set of one list.
type Schema struct {
	fields []FieldKind
	// groups maps container field ids to their keys.
	groups map[uint]string
	keys   map[string]struct{}
}

// Fields returns the schema in display order.
func (s Schema) Fields() []FieldKind {
	return s.fields
}

// Resolve maps an input key to its storage column: top-level fields first,
// then the options of every group.
func (s Schema) Resolve(key string) (string, bool) {
	for _, f := range s.fields {
		if col, ok := f.Own(key); ok {
			return col, true
		}
	}
	for _, f := range s.fields {
		if col, ok := f.Nested(key); ok {
			return col, true
		}
	}
	return "", false
}

// HasKey reports whether key is claimed by any field or option.
func (s Schema) HasKey(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// IsGroup reports whether id is a group container of this schema.
func (s Schema) IsGroup(id uint) bool {
	_, ok := s.groups[id]
	return ok
}

// NewSchema builds a schema from the flat field rows of one list, ordered
// as they should be displayed. Options are attached to their container;
// options whose container is missing are dropped.
func NewSchema(rows []models.Field) (Schema, error) {
	schema := Schema{
		groups: make(map[uint]string),
		keys:   make(map[string]struct{}),
	}

	options := make(map[uint][]optionField)
	for _, row := range rows {
		if row.GroupID != nil {
			options[*row.GroupID] = append(options[*row.GroupID], optionField{
				key:     row.Key,
				column:  column(row),
				boolean: row.Type == models.FieldTypeOption,
			})
		}
	}

	for _, row := range rows {
		if row.GroupID != nil {
			continue
		}
		var kind FieldKind
		if models.IsGroupFieldType(row.Type) {
			schema.groups[row.ID] = row.Key
			kind = groupField{key: row.Key, options: options[row.ID]}
		} else {
			kind = textField{key: row.Key, column: column(row)}
		}

		for _, key := range kind.Keys() {
			if _, taken := schema.keys[key]; taken {
				return Schema{}, apperrors.Conflict("Ambiguous merge tag "+key, nil)
			}
			schema.keys[key] = struct{}{}
		}
		schema.fields = append(schema.fields, kind)
	}

	return schema, nil
}

func column(row models.Field) string {
	if row.Column == nil {
		return ""
	}
	return *row.Column
}

// FieldLister loads the custom field rows of a list in display order.
type FieldLister interface {
	ListFields(ctx context.Context, listID uint) ([]models.Field, error)
}

// LoadSchema loads and assembles the schema of a list. A failing field
// store yields an empty schema: a list without custom fields is valid.
func LoadSchema(ctx context.Context, store FieldLister, listID uint, log *logger.Logger) (Schema, error) {
	rows, err := store.ListFields(ctx, listID)
	if err != nil {
		log.Warn("loading fields of list %d failed, using empty schema: %v", listID, err)
		rows = nil
	}
	return NewSchema(rows)
}
