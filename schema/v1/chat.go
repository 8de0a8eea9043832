package v1

import "github.com/reoring/charskema/dsl"

var ChatSchema = dsl.Object().
	Doc(dsl.Doc{Description: "A conversation with a character."}).
	Field("id", dsl.String()).Required().
	// Lookup-only reference; the chat does not own the character.
	Field("characterId", dsl.String()).Required().
	Field("messages", dsl.Array(MessageSchema).UniqueBy("id")).Doc(dsl.Doc{Description: "Message ids must be unique."}).Default([]any{}).
	Field("title", dsl.String()).Default("Chat").
	Field("createdAt", dsl.Number()).Doc(timestampDoc).DefaultFunc(nowMillis).
	Field("updatedAt", dsl.Number()).Doc(timestampDoc).DefaultFunc(nowMillis).
	Field("lorebook", dsl.Array(LorebookEntrySchema).UniqueBy("id")).Doc(dsl.Doc{
		Description: "Chat-scoped entries used in addition to the character lorebook.",
		Since:       "1",
	}).
	MustBuild()
