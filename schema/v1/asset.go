package v1

import (
	"github.com/reoring/charskema/dsl"
	"github.com/reoring/charskema/schema/common"
)

var AssetEntitySchema = dsl.Object().
	Doc(dsl.Doc{Description: "A named asset referenced by URL."}).
	Field("mimeType", dsl.String()).Required().
	// File-system safe identifier, unique within its collection.
	Field("name", dsl.String().Min(1).Pattern(`^[^/\\]+$`)).Required().
	Field("data", common.URLSchema).Required().
	MustBuild()

var AssetsSettingSchema = dsl.Object().
	Doc(dsl.Doc{Description: "Assets bundled with a character."}).
	Field("assets", dsl.Array(AssetEntitySchema).UniqueBy("name")).Doc(dsl.Doc{Description: "Asset names must be unique."}).Default([]any{}).
	MustBuild()
