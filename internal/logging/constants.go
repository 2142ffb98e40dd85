package logging

// Standard field keys so log output stays greppable across packages.
const (
	FieldFile     = "file"
	FieldCount    = "count"
	FieldCode     = "code"
	FieldCustomer = "customer"
	FieldSheet    = "sheet"
	FieldKind     = "kind"
)
