package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// RunEvent records the outcome of one quiz, scenario, arena challenge or
// exam attempt.
type RunEvent struct {
	ent.Schema
}

func (RunEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (RunEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("run_id").
			Unique().
			NotEmpty().
			Comment("UUID of the attempt"),
		field.String("kind").
			NotEmpty().
			Comment("quiz, scenario, arena or exam"),
		field.String("subject").
			Comment("Module id, scenario id or challenge title"),
		field.Int("correct").
			Default(0),
		field.Int("total").
			Default(0),
		field.Int64("elapsed_ms").
			Default(0),
		field.Bool("passed").
			Default(false),
		field.Bool("quit").
			Default(false).
			Comment("Whether the learner abandoned the run"),
	}
}

func (RunEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("kind", "subject"),
	}
}
