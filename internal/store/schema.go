package store

import (
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/climastery/ent/schema"
)

// Table names.
const (
	tableSnapshots      = "snapshots"
	tableProgressEvents = "progress_events"
	tableRunEvents      = "run_events"
)

// Tables returns the journal schema applied by Open, derived from the entity
// definitions in ent/schema.
func Tables() []*schema.Table {
	return []*schema.Table{
		mustTable(tableSnapshots, "snapshot", entschema.Snapshot{}),
		mustTable(tableProgressEvents, "progressevent", entschema.ProgressEvent{}),
		mustTable(tableRunEvents, "runevent", entschema.RunEvent{}),
	}
}

type mixed interface {
	Mixin() []ent.Mixin
}

func mustTable(name, prefix string, s ent.Interface) *schema.Table {
	t, err := tableFor(name, prefix, s)
	if err != nil {
		panic(err)
	}
	return t
}

// tableFor builds a table with an auto-increment id followed by the mixin
// fields and the schema's own fields. Index names follow ent's
// <type>_<fields> convention.
func tableFor(name, prefix string, s ent.Interface) (*schema.Table, error) {
	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	if m, ok := s.(mixed); ok {
		for _, mx := range m.Mixin() {
			fields = append(fields, mx.Fields()...)
			indexes = append(indexes, mx.Indexes()...)
		}
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := schema.NewTable(name).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		col := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Size:     int64(d.Size),
			Unique:   d.Unique,
			Nullable: d.Optional,
			Comment:  d.Comment,
		}
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			col.Default = d.Default
		}
		t.AddColumn(col)
	}
	for _, idx := range indexes {
		d := idx.Descriptor()
		for _, c := range d.Fields {
			if _, ok := t.Column(c); !ok {
				return nil, fmt.Errorf("%s: index on unknown column %q", name, c)
			}
		}
		t.AddIndex(prefix+"_"+strings.Join(d.Fields, "_"), d.Unique, d.Fields)
	}
	return t, nil
}
