package common

import "github.com/reoring/charskema/registry"

// ImportPath is the import path this package registers its bindings under.
const ImportPath = "github.com/reoring/charskema/schema/common"

func init() {
	registry.Register(ImportPath, "URLSchema", URLSchema)
	registry.Register(ImportPath, "PositiveIntegerSchema", PositiveIntegerSchema)
}
