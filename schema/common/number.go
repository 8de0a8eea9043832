package common

import "github.com/reoring/charskema/dsl"

var PositiveIntegerSchema = dsl.PositiveInteger().Doc(dsl.Doc{
	Description: "An integer greater than or equal to 1.",
})
