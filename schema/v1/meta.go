package v1

import "github.com/reoring/charskema/dsl"

var MetaSchema = dsl.Object().
	Doc(dsl.Doc{Description: "Descriptive metadata about a character. Purely informational."}).
	Field("author", dsl.String()).
	Field("license", dsl.String()).Doc(licenseDoc).Default("ARR").
	Field("version", dsl.String()).Doc(dsl.Doc{Description: "Author-defined version of the character."}).
	Field("distributedOn", dsl.String()).Doc(dsl.Doc{Description: "Where the character was published."}).
	Field("additionalInfo", dsl.String()).
	MustBuild()

var licenseDoc = dsl.Doc{
	Description: "License of the character. ARR means all rights reserved.",
	See:         []string{"https://spdx.org/licenses/"},
}
