package dto

// FieldRule pairs a supplied patch field with the validator tag it must pass.
type FieldRule struct {
	Name     string
	Value    Field[string]
	Tag      string
	Nullable bool
}

// NestedRule is a supplied patch field holding an object; the object is
// validated with its own struct tags and may not be null.
type NestedRule struct {
	Name  string
	Set   bool
	Null  bool
	Value any
}
