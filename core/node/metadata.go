package node

// DataType is the semantic type tag carried by a port. Edge validation
// treats two ports compatible when their DataType values are equal or when
// either side is DataTypeAny.
type DataType string

const (
	DataTypeAny     DataType = "any"
	DataTypeAudio   DataType = "audio"
	DataTypeVector  DataType = "vector"
	DataTypeTrigger DataType = "trigger"
	DataTypeSpectrum DataType = "spectrum"
)

// Port describes one input or output of a node type.
type Port struct {
	ID    string
	Label string
	Type  DataType
}

// ParamType is the semantic type tag of a configuration parameter.
type ParamType string

const (
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamString  ParamType = "string"
	ParamEnum    ParamType = "enum"
)

// ParamSpec describes one entry of a node type's parameter schema: its
// name, semantic type, default value, optional numeric bounds, and (for
// ParamEnum) the set of allowed values.
type ParamSpec struct {
	Name    string
	Type    ParamType
	Default any
	Min     *float64
	Max     *float64
	Enum    []string
}

// Kind is the taxonomy derived from a node's port counts, per the design
// note that category is never declared as a separate interface.
type Kind string

const (
	KindSource    Kind = "source"
	KindTransform Kind = "transform"
	KindSink      Kind = "sink"
)

// Metadata is the static description of a node type: identity, display
// name, a free-form grouping category (for catalog presentation), its
// ordered ports, and its parameter schema. Metadata is the same for every
// instance of a node type; a Factory produces fresh instances.
type Metadata struct {
	ID          string
	DisplayName string
	Category    string
	Inputs      []Port
	Outputs     []Port
	Params      []ParamSpec
}

// Kind derives the node's taxonomy from its port counts: no inputs makes it
// a source, no outputs makes it a sink, otherwise a transform. A node with
// neither inputs nor outputs is classified as a source (it still needs to
// be driven by an external trigger).
func (m Metadata) Kind() Kind {
	switch {
	case len(m.Inputs) == 0:
		return KindSource
	case len(m.Outputs) == 0:
		return KindSink
	default:
		return KindTransform
	}
}

// Factory produces a fresh, unconfigured node instance for a registered
// node type.
type Factory func() Executor
