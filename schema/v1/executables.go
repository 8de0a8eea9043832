package v1

import (
	"github.com/reoring/charskema/dsl"
	"github.com/reoring/charskema/schema/common"
)

var ReplaceHookMetaSchema = dsl.IntersectionDoc(
	dsl.Doc{Description: "How a replace hook matches, and its flags."},
	dsl.Union("type",
		dsl.Variant("regex", dsl.Object().
			Field("type", dsl.Literal("regex")).Required().
			Field("flag", dsl.String()).Required().
			MustBuild()),
		dsl.Variant("string", dsl.Object().
			Field("type", dsl.Literal("string")).Required().
			Field("caseSensitive", dsl.Bool()).Default(true).
			MustBuild()),
	),
	dsl.Object().
		Field("isInputPatternScripted", dsl.Bool()).Default(false).
		Field("isOutputScripted", dsl.Bool()).Default(false).
		// Higher priority wins when several hooks match the same span.
		Field("priority", dsl.Number()).Default(0).
		MustBuild(),
)

var ReplaceHookEntitySchema = dsl.Object().
	Field("input", dsl.String()).Doc(dsl.Doc{Description: "Pattern, possibly containing a script expression."}).Required().
	Field("meta", ReplaceHookMetaSchema).Required().
	Field("output", dsl.String()).Doc(dsl.Doc{Description: "Replacement, possibly containing a script expression."}).Required().
	MustBuild()

var ReplaceHookSchema = dsl.Object().
	Doc(dsl.Doc{Description: "Replace hooks grouped by the text they apply to."}).
	Field("display", dsl.Array(ReplaceHookEntitySchema)).Default([]any{}).
	Field("input", dsl.Array(ReplaceHookEntitySchema)).Default([]any{}).
	Field("output", dsl.Array(ReplaceHookEntitySchema)).Default([]any{}).
	Field("request", dsl.Array(ReplaceHookEntitySchema)).Default([]any{}).
	MustBuild()

var ScriptSettingSchema = dsl.Object().
	Doc(dsl.Doc{Description: "Scripts and hooks executed on behalf of a character."}).
	Field("runtimeSetting", runtimeSetting).Default(map[string]any{}).
	Field("replaceHooks", ReplaceHookSchema).Default(map[string]any{}).
	MustBuild()

// Soft limits: the executing environment may exceed or ignore them.
var runtimeSetting = dsl.Object().
	Field("mem", common.PositiveIntegerSchema).Doc(dsl.Doc{Description: "Memory ceiling in MB."}).
	Field("timeout", common.PositiveIntegerSchema).Doc(dsl.Doc{Description: "Execution timeout in seconds."}).Default(5).
	MustBuild()
