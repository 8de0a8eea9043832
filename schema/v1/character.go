package v1

import (
	"github.com/reoring/charskema/dsl"
	"github.com/reoring/charskema/schema/common"
)

// Version is the specVersion tag of this generation.
const Version = 1

var CharacterSchema = dsl.Object().
	Doc(dsl.Doc{
		Description: "A character: persona text, prompt configuration, scripts and assets.",
		Since:       "1",
	}).
	Field("specVersion", dsl.Literal(Version)).Doc(dsl.Doc{Description: "Selects the schema generation."}).Required().
	// Opaque identifier. Uniqueness within a store is the caller's concern.
	Field("id", dsl.String()).Required().
	Field("name", dsl.String()).Required().
	Field("description", dsl.String()).Required().
	Field("avatarUrl", common.URLSchema).
	Field("prompt", CharacterPromptDataSchema).Required().
	Field("executables", ScriptSettingSchema).Default(map[string]any{}).
	Field("metadata", MetaSchema).Default(map[string]any{}).
	Field("assets", AssetsSettingSchema).Default(map[string]any{}).
	MustBuild()
