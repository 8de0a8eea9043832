package common

import "github.com/reoring/charskema/dsl"

// URLSchema accepts any syntactically valid URL. Schemes are not restricted;
// callers resolve local: and data: references themselves.
var URLSchema = dsl.URL().Doc(dsl.Doc{
	Description: "A syntactically valid URL. The scheme is not restricted.",
	Examples:    []any{"https://example.com/avatar.png"},
})
