package generator

// HeaderData contains data for the generated file header.
type HeaderData struct {
	PackageName string
}

// FieldData contains data for a struct field.
type FieldData struct {
	Comment string
	Name    string
	Type    string
	Tags    string
}

// StructData contains data for a struct type.
type StructData struct {
	Comment             string
	TypeName            string
	OriginalName        string
	Fields              []FieldData
	HasAdditionalProps  bool
	AdditionalPropsType string
}

// EnumValueData contains data for a single enum constant. Value is the
// rendered Go literal.
type EnumValueData struct {
	ConstName string
	Value     string
}

// EnumData contains data for an enum type.
type EnumData struct {
	Comment  string
	TypeName string
	BaseType string
	Values   []EnumValueData
}

// AliasData contains data for a type alias or defined type.
type AliasData struct {
	Comment    string
	TypeName   string
	TargetType string
	// IsDefined selects a defined type (type X Y) over an alias (type X = Y).
	IsDefined bool
}

// AllOfData contains data for an allOf composition rendered as a struct
// with embedded types.
type AllOfData struct {
	Comment       string
	TypeName      string
	EmbeddedTypes []string
	Fields        []FieldData
}

// UnionVariant contains data for one oneOf/anyOf variant field.
type UnionVariant struct {
	Name string
	Type string
}

// UnmarshalCase contains data for one discriminator dispatch case.
type UnmarshalCase struct {
	Value    string
	Field    string
	TypeName string
}

// UnionData contains data for a oneOf/anyOf union rendered as a struct of
// pointer variants.
type UnionData struct {
	Comment               string
	TypeName              string
	Discriminator         string
	DiscriminatorJSONName string
	Variants              []UnionVariant
	HasUnmarshal          bool
	UnmarshalCases        []UnmarshalCase
}

// TypeDefinition is a union over the kinds of type declaration the types
// template renders. Exactly one payload field matching Kind is set.
type TypeDefinition struct {
	Kind string // "struct", "enum", "alias", "allof", "union"

	Struct *StructData
	Enum   *EnumData
	Alias  *AliasData
	AllOf  *AllOfData
	Union  *UnionData
}

// TypesFileData contains all data for a types.go file.
type TypesFileData struct {
	Header HeaderData
	Types  []TypeDefinition
}

// EndpointData contains data for one endpoint table entry. TagsLiteral is
// the rendered Go slice literal, empty for untagged operations.
type EndpointData struct {
	OperationID string
	Method      string
	Path        string
	Deprecated  bool
	TagsLiteral string
}

// OperationsFileData contains all data for an operations.go file.
type OperationsFileData struct {
	Header    HeaderData
	Endpoints []EndpointData
}
