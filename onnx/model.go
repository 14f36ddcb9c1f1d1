// Package onnx encodes and decodes the subset of the ONNX protobuf format needed to
// exchange fully connected float networks.
package onnx

// Tensor element types
const (
	Float int32 = 1
)

// AttributeType is the kind of value held by an Attribute
type AttributeType int32

// Attribute value kinds
const (
	AttributeFloat AttributeType = 1
	AttributeInt   AttributeType = 2
)

// Model is an ONNX ModelProto
type Model struct {
	IRVersion       int64
	ProducerName    string
	ProducerVersion string
	Domain          string
	ModelVersion    int64
	DocString       string
	Graph           Graph
	OpsetImport     []OperatorSet
	Metadata        []Property
}

// MetadataValue returns the value of the metadata property key
func (m *Model) MetadataValue(key string) (string, bool) {
	for _, p := range m.Metadata {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// OperatorSet names the operator set version a model was built against
type OperatorSet struct {
	Domain  string
	Version int64
}

// Property is a metadata key value pair
type Property struct {
	Key   string
	Value string
}

// Graph is an ONNX GraphProto
type Graph struct {
	Name         string
	DocString    string
	Nodes        []Node
	Initializers []Tensor
	Inputs       []ValueInfo
	Outputs      []ValueInfo
}

// Initializer returns the initializer called name
func (g *Graph) Initializer(name string) (*Tensor, bool) {
	for i := range g.Initializers {
		if g.Initializers[i].Name == name {
			return &g.Initializers[i], true
		}
	}
	return nil, false
}

// Node is one operator application
type Node struct {
	Name       string
	OpType     string
	Domain     string
	Inputs     []string
	Outputs    []string
	Attributes []Attribute
}

// Attribute returns the attribute called name
func (n *Node) Attribute(name string) (*Attribute, bool) {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			return &n.Attributes[i], true
		}
	}
	return nil, false
}

// Attribute is a named scalar operator parameter
type Attribute struct {
	Name string
	Type AttributeType
	F    float32
	I    int64
}

// FloatAttribute creates a float attribute
func FloatAttribute(name string, f float32) Attribute {
	return Attribute{Name: name, Type: AttributeFloat, F: f}
}

// IntAttribute creates an integer attribute
func IntAttribute(name string, i int64) Attribute {
	return Attribute{Name: name, Type: AttributeInt, I: i}
}

// Tensor is a float tensor. Data is stored row major.
type Tensor struct {
	Name     string
	Dims     []int64
	DataType int32
	Floats   []float32
}

// Size returns the number of elements implied by the dimensions
func (t *Tensor) Size() int64 {
	size := int64(1)
	for _, d := range t.Dims {
		size *= d
	}
	return size
}

// Dim is one tensor dimension, either fixed or symbolic
type Dim struct {
	Value int64
	Param string
}

// ValueInfo describes a graph input or output
type ValueInfo struct {
	Name     string
	ElemType int32
	Shape    []Dim
}
