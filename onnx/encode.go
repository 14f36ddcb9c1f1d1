package onnx

import "encoding/binary"
import "math"

import "google.golang.org/protobuf/encoding/protowire"

// field numbers of the ONNX protobuf schema
const (
	modelIRVersion       = 1
	modelProducerName    = 2
	modelProducerVersion = 3
	modelDomain          = 4
	modelModelVersion    = 5
	modelDocString       = 6
	modelGraph           = 7
	modelOpsetImport     = 8
	modelMetadataProps   = 14

	graphNode        = 1
	graphName        = 2
	graphInitializer = 5
	graphDocString   = 10
	graphInput       = 11
	graphOutput      = 12

	nodeInput     = 1
	nodeOutput    = 2
	nodeName      = 3
	nodeOpType    = 4
	nodeAttribute = 5
	nodeDomain    = 7

	attributeName = 1
	attributeF    = 2
	attributeI    = 3
	attributeType = 20

	tensorDims      = 1
	tensorDataType  = 2
	tensorFloatData = 4
	tensorName      = 8
	tensorRawData   = 9

	valueInfoName = 1
	valueInfoType = 2

	typeTensorType  = 1
	tensorElemType  = 1
	tensorShape     = 2
	shapeDim        = 1
	dimValue        = 1
	dimParam        = 2
	operatorDomain  = 1
	operatorVersion = 2
	propertyKey     = 1
	propertyValue   = 2
)

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendInt(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// Marshal encodes m in the protobuf wire format
func Marshal(m *Model) []byte {
	var b []byte
	b = appendInt(b, modelIRVersion, m.IRVersion)
	b = appendString(b, modelProducerName, m.ProducerName)
	b = appendString(b, modelProducerVersion, m.ProducerVersion)
	b = appendString(b, modelDomain, m.Domain)
	b = appendInt(b, modelModelVersion, m.ModelVersion)
	b = appendString(b, modelDocString, m.DocString)
	b = appendMessage(b, modelGraph, marshalGraph(&m.Graph))
	for _, o := range m.OpsetImport {
		var ob []byte
		ob = appendString(ob, operatorDomain, o.Domain)
		ob = appendInt(ob, operatorVersion, o.Version)
		b = appendMessage(b, modelOpsetImport, ob)
	}
	for _, p := range m.Metadata {
		var pb []byte
		pb = appendString(pb, propertyKey, p.Key)
		pb = appendString(pb, propertyValue, p.Value)
		b = appendMessage(b, modelMetadataProps, pb)
	}
	return b
}

func marshalGraph(g *Graph) (b []byte) {
	for i := range g.Nodes {
		b = appendMessage(b, graphNode, marshalNode(&g.Nodes[i]))
	}
	b = appendString(b, graphName, g.Name)
	for i := range g.Initializers {
		b = appendMessage(b, graphInitializer, marshalTensor(&g.Initializers[i]))
	}
	b = appendString(b, graphDocString, g.DocString)
	for i := range g.Inputs {
		b = appendMessage(b, graphInput, marshalValueInfo(&g.Inputs[i]))
	}
	for i := range g.Outputs {
		b = appendMessage(b, graphOutput, marshalValueInfo(&g.Outputs[i]))
	}
	return b
}

func marshalNode(n *Node) (b []byte) {
	for _, in := range n.Inputs {
		b = protowire.AppendTag(b, nodeInput, protowire.BytesType)
		b = protowire.AppendString(b, in)
	}
	for _, out := range n.Outputs {
		b = protowire.AppendTag(b, nodeOutput, protowire.BytesType)
		b = protowire.AppendString(b, out)
	}
	b = appendString(b, nodeName, n.Name)
	b = appendString(b, nodeOpType, n.OpType)
	for _, a := range n.Attributes {
		var ab []byte
		ab = appendString(ab, attributeName, a.Name)
		switch a.Type {
		case AttributeFloat:
			ab = protowire.AppendTag(ab, attributeF, protowire.Fixed32Type)
			ab = protowire.AppendFixed32(ab, math.Float32bits(a.F))
		case AttributeInt:
			ab = protowire.AppendTag(ab, attributeI, protowire.VarintType)
			ab = protowire.AppendVarint(ab, uint64(a.I))
		}
		ab = appendInt(ab, attributeType, int64(a.Type))
		b = appendMessage(b, nodeAttribute, ab)
	}
	b = appendString(b, nodeDomain, n.Domain)
	return b
}

// marshalTensor stores the data as little endian raw bytes
func marshalTensor(t *Tensor) (b []byte) {
	for _, d := range t.Dims {
		b = protowire.AppendTag(b, tensorDims, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(d))
	}
	b = appendInt(b, tensorDataType, int64(t.DataType))
	b = appendString(b, tensorName, t.Name)
	raw := make([]byte, 4*len(t.Floats))
	for i, f := range t.Floats {
		binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(f))
	}
	b = protowire.AppendTag(b, tensorRawData, protowire.BytesType)
	return protowire.AppendBytes(b, raw)
}

func marshalValueInfo(v *ValueInfo) (b []byte) {
	b = appendString(b, valueInfoName, v.Name)

	var shape []byte
	for _, d := range v.Shape {
		var db []byte
		if d.Param != "" {
			db = appendString(db, dimParam, d.Param)
		} else {
			db = protowire.AppendTag(db, dimValue, protowire.VarintType)
			db = protowire.AppendVarint(db, uint64(d.Value))
		}
		shape = appendMessage(shape, shapeDim, db)
	}
	var tensor []byte
	tensor = appendInt(tensor, tensorElemType, int64(v.ElemType))
	tensor = appendMessage(tensor, tensorShape, shape)

	var typ []byte
	typ = appendMessage(typ, typeTensorType, tensor)
	return appendMessage(b, valueInfoType, typ)
}
