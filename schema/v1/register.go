package v1

import "github.com/reoring/charskema/registry"

// ImportPath is the import path this package registers its bindings under.
const ImportPath = "github.com/reoring/charskema/schema/v1"

func init() {
	for name, v := range map[string]any{
		"AssetEntitySchema":         AssetEntitySchema,
		"AssetsSettingSchema":       AssetsSettingSchema,
		"CharacterPromptDataSchema": CharacterPromptDataSchema,
		"CharacterSchema":           CharacterSchema,
		"ChatSchema":                ChatSchema,
		"FileSchema":                FileSchema,
		"LorebookConditionSchema":   LorebookConditionSchema,
		"LorebookDataSchema":        LorebookDataSchema,
		"LorebookEntrySchema":       LorebookEntrySchema,
		"MessageContentSchema":      MessageContentSchema,
		"MessageSchema":             MessageSchema,
		"MetaSchema":                MetaSchema,
		"ReplaceHookEntitySchema":   ReplaceHookEntitySchema,
		"ReplaceHookMetaSchema":     ReplaceHookMetaSchema,
		"ReplaceHookSchema":         ReplaceHookSchema,
		"ScriptSettingSchema":       ScriptSettingSchema,
	} {
		registry.Register(ImportPath, name, v)
	}
}
