// Package v1 is the first character schema generation.
//
// Decisions fixed by this generation: avatarUrl lives on the character,
// asset data is a URL reference, executables is a single ScriptSetting object
// and every entity rejects unknown keys.
package v1
