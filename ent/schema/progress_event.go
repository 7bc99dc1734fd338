package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ProgressEvent records a single change to the learner's progress: XP
// awarded, a lesson or scenario completed, an achievement unlocked.
type ProgressEvent struct {
	ent.Schema
}

func (ProgressEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (ProgressEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("kind").
			NotEmpty().
			Comment("xp, level_up, achievement, lesson, quiz, scenario, section or reset"),
		field.String("subject").
			Default("").
			Comment("Identifier the event is about"),
		field.Int("amount").
			Default(0).
			Comment("XP amount or level reached"),
		field.String("detail").
			Default("").
			Comment("Human readable reason"),
	}
}

func (ProgressEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("kind"),
	}
}
