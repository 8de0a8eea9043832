package v1

import "github.com/reoring/charskema/dsl"

var CharacterPromptDataSchema = dsl.Object().
	Doc(dsl.Doc{Description: "Prompt configuration of a character."}).
	Field("description", dsl.String()).Required().
	Field("authorsNote", dsl.String()).Doc(dsl.Doc{Description: "Note injected close to the end of the prompt."}).
	Field("lorebook", LorebookDataSchema).Required().
	MustBuild()
