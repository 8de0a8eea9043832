package v1

import (
	"github.com/reoring/charskema/dsl"
	"github.com/reoring/charskema/schema/common"
)

var LorebookConditionSchema = dsl.Object().
	Doc(dsl.Doc{Description: "When a lorebook entry activates."}).
	Discriminator("type").
	OneOf(
		dsl.Variant("regex_match", dsl.Object().
			Field("type", dsl.Literal("regex_match")).Required().
			Field("regexPattern", dsl.String()).Required().
			Field("regexFlags", dsl.String()).
			MustBuild()),
		dsl.Variant("plain_text_match", dsl.Object().
			Field("type", dsl.Literal("plain_text_match")).Required().
			Field("text", dsl.String()).Doc(dsl.Doc{Description: "Matched case-insensitively."}).Required().
			MustBuild()),
		dsl.Variant("always", dsl.Object().
			Field("type", dsl.Literal("always")).Required().
			MustBuild()),
	).
	MustBuild()

var LorebookEntrySchema = dsl.Object().
	Doc(dsl.Doc{Description: "A piece of lore injected into the prompt when its conditions match."}).
	Field("id", dsl.String()).Required().
	Field("name", dsl.String()).Required().
	Field("condition", dsl.Array(LorebookConditionSchema)).Doc(conditionDoc).Default([]any{}).
	Field("multipleConditionResolveStrategy", dsl.Enum("all", "any")).Doc(strategyDoc).
	Field("content", dsl.String()).Required().
	// Higher priority activates first and survives token limit pruning.
	Field("priority", dsl.Number()).
	Field("enabled", dsl.Bool()).
	MustBuild()

var LorebookDataSchema = dsl.Object().
	Doc(dsl.Doc{Description: "Lorebook of a character."}).
	Field("config", lorebookConfig).Required().
	Field("data", dsl.Array(LorebookEntrySchema).UniqueBy("id")).Doc(dsl.Doc{Description: "Entry ids must be unique."}).Default([]any{}).
	MustBuild()

var lorebookConfig = dsl.Object().
	Field("tokenLimit", common.PositiveIntegerSchema).Doc(dsl.Doc{Description: "Budget for injected lore content."}).Required().
	MustBuild()

var (
	conditionDoc = dsl.Doc{Description: "Activation conditions. An empty list never activates; use an always condition instead."}
	strategyDoc  = dsl.Doc{Description: "How multiple conditions combine: all (AND) or any (OR)."}
)
