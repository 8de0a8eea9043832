package v1

import (
	"time"

	"github.com/reoring/charskema/dsl"
	"github.com/reoring/charskema/schema/common"
)

// FileSchema is the payload of a file message: a URL reference or raw bytes.
var FileSchema = dsl.AnyOf(common.URLSchema, dsl.Binary()).
	Doc(dsl.Doc{Description: "A URL reference or raw binary content."})

var MessageContentSchema = dsl.Object().
	Doc(dsl.Doc{Description: "Content of a message."}).
	Discriminator("type").
	OneOf(
		dsl.Variant("text", dsl.Object().
			Field("type", dsl.Literal("text")).Required().
			Field("data", dsl.String()).Required().
			MustBuild()),
		dsl.Variant("file", dsl.Object().
			Field("type", dsl.Literal("file")).Required().
			Field("data", FileSchema).Required().
			Field("mimeType", dsl.String()).Required().
			MustBuild()),
	).
	MustBuild()

var MessageSchema = dsl.Object().
	Doc(dsl.Doc{Description: "A single chat message."}).
	Field("id", dsl.String()).Required().
	Field("chatId", dsl.String()).Doc(dsl.Doc{Description: "Id of the owning chat."}).Required().
	Field("role", dsl.Enum("user", "assistant", "system")).Required().
	Field("content", MessageContentSchema).Required().
	Field("timestamp", dsl.Number()).Doc(timestampDoc).DefaultFunc(nowMillis).
	Field("inlays", dsl.Array(AssetEntitySchema).UniqueBy("name")).Doc(dsl.Doc{Description: "Assets shown inline. Names must be unique."}).Default([]any{}).
	MustBuild()

var timestampDoc = dsl.Doc{Description: "Unix epoch milliseconds. Defaults to the time of validation."}

// nowMillis is the dynamic default of every timestamp.
func nowMillis() any { return time.Now().UnixMilli() }
