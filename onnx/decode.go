package onnx

import "encoding/binary"
import "math"

import "github.com/pkg/errors"
import "google.golang.org/protobuf/encoding/protowire"

// field is one decoded wire field. Varint and fixed values are in v, length delimited
// payloads in b.
type field struct {
	num protowire.Number
	typ protowire.Type
	v   uint64
	b   []byte
}

// fields splits a message into its fields. Groups are skipped.
func fields(b []byte) ([]field, error) {
	var o []field
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.v, n = protowire.ConsumeVarint(b)
		case protowire.Fixed32Type:
			var v uint32
			v, n = protowire.ConsumeFixed32(b)
			f.v = uint64(v)
		case protowire.Fixed64Type:
			f.v, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			f.b, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		if typ == protowire.StartGroupType {
			continue
		}
		o = append(o, f)
	}
	return o, nil
}

// Unmarshal decodes a model. Fields outside the supported subset are ignored.
func Unmarshal(b []byte) (*Model, error) {
	fs, err := fields(b)
	if err != nil {
		return nil, errors.Wrap(err, "model")
	}
	m := new(Model)
	for _, f := range fs {
		switch {
		case f.num == modelIRVersion && f.typ == protowire.VarintType:
			m.IRVersion = int64(f.v)
		case f.num == modelProducerName && f.typ == protowire.BytesType:
			m.ProducerName = string(f.b)
		case f.num == modelProducerVersion && f.typ == protowire.BytesType:
			m.ProducerVersion = string(f.b)
		case f.num == modelDomain && f.typ == protowire.BytesType:
			m.Domain = string(f.b)
		case f.num == modelModelVersion && f.typ == protowire.VarintType:
			m.ModelVersion = int64(f.v)
		case f.num == modelDocString && f.typ == protowire.BytesType:
			m.DocString = string(f.b)
		case f.num == modelGraph && f.typ == protowire.BytesType:
			if err := unmarshalGraph(f.b, &m.Graph); err != nil {
				return nil, err
			}
		case f.num == modelOpsetImport && f.typ == protowire.BytesType:
			var o OperatorSet
			sub, err := fields(f.b)
			if err != nil {
				return nil, errors.Wrap(err, "opset import")
			}
			for _, s := range sub {
				switch {
				case s.num == operatorDomain && s.typ == protowire.BytesType:
					o.Domain = string(s.b)
				case s.num == operatorVersion && s.typ == protowire.VarintType:
					o.Version = int64(s.v)
				}
			}
			m.OpsetImport = append(m.OpsetImport, o)
		case f.num == modelMetadataProps && f.typ == protowire.BytesType:
			var p Property
			sub, err := fields(f.b)
			if err != nil {
				return nil, errors.Wrap(err, "metadata")
			}
			for _, s := range sub {
				switch {
				case s.num == propertyKey && s.typ == protowire.BytesType:
					p.Key = string(s.b)
				case s.num == propertyValue && s.typ == protowire.BytesType:
					p.Value = string(s.b)
				}
			}
			m.Metadata = append(m.Metadata, p)
		}
	}
	return m, nil
}

func unmarshalGraph(b []byte, g *Graph) error {
	fs, err := fields(b)
	if err != nil {
		return errors.Wrap(err, "graph")
	}
	for _, f := range fs {
		if f.typ != protowire.BytesType {
			continue
		}
		switch f.num {
		case graphNode:
			n, err := unmarshalNode(f.b)
			if err != nil {
				return err
			}
			g.Nodes = append(g.Nodes, n)
		case graphName:
			g.Name = string(f.b)
		case graphInitializer:
			t, err := unmarshalTensor(f.b)
			if err != nil {
				return err
			}
			g.Initializers = append(g.Initializers, t)
		case graphDocString:
			g.DocString = string(f.b)
		case graphInput, graphOutput:
			v, err := unmarshalValueInfo(f.b)
			if err != nil {
				return err
			}
			if f.num == graphInput {
				g.Inputs = append(g.Inputs, v)
			} else {
				g.Outputs = append(g.Outputs, v)
			}
		}
	}
	return nil
}

func unmarshalNode(b []byte) (n Node, err error) {
	fs, err := fields(b)
	if err != nil {
		return n, errors.Wrap(err, "node")
	}
	for _, f := range fs {
		if f.typ != protowire.BytesType {
			continue
		}
		switch f.num {
		case nodeInput:
			n.Inputs = append(n.Inputs, string(f.b))
		case nodeOutput:
			n.Outputs = append(n.Outputs, string(f.b))
		case nodeName:
			n.Name = string(f.b)
		case nodeOpType:
			n.OpType = string(f.b)
		case nodeDomain:
			n.Domain = string(f.b)
		case nodeAttribute:
			a, err := unmarshalAttribute(f.b)
			if err != nil {
				return n, err
			}
			n.Attributes = append(n.Attributes, a)
		}
	}
	return n, nil
}

func unmarshalAttribute(b []byte) (a Attribute, err error) {
	fs, err := fields(b)
	if err != nil {
		return a, errors.Wrap(err, "attribute")
	}
	for _, f := range fs {
		switch {
		case f.num == attributeName && f.typ == protowire.BytesType:
			a.Name = string(f.b)
		case f.num == attributeF && f.typ == protowire.Fixed32Type:
			a.F = math.Float32frombits(uint32(f.v))
		case f.num == attributeI && f.typ == protowire.VarintType:
			a.I = int64(f.v)
		case f.num == attributeType && f.typ == protowire.VarintType:
			a.Type = AttributeType(f.v)
		}
	}
	return a, nil
}

// unmarshalTensor accepts packed or unpacked dims and data in either raw_data or float_data
func unmarshalTensor(b []byte) (t Tensor, err error) {
	fs, err := fields(b)
	if err != nil {
		return t, errors.Wrap(err, "tensor")
	}
	var raw []byte
	for _, f := range fs {
		switch {
		case f.num == tensorDims && f.typ == protowire.VarintType:
			t.Dims = append(t.Dims, int64(f.v))
		case f.num == tensorDims && f.typ == protowire.BytesType:
			for p := f.b; len(p) > 0; {
				v, n := protowire.ConsumeVarint(p)
				if n < 0 {
					return t, errors.Wrap(protowire.ParseError(n), "tensor dims")
				}
				t.Dims = append(t.Dims, int64(v))
				p = p[n:]
			}
		case f.num == tensorDataType && f.typ == protowire.VarintType:
			t.DataType = int32(f.v)
		case f.num == tensorName && f.typ == protowire.BytesType:
			t.Name = string(f.b)
		case f.num == tensorRawData && f.typ == protowire.BytesType:
			raw = f.b
		case f.num == tensorFloatData && f.typ == protowire.Fixed32Type:
			t.Floats = append(t.Floats, math.Float32frombits(uint32(f.v)))
		case f.num == tensorFloatData && f.typ == protowire.BytesType:
			if len(f.b)%4 != 0 {
				return t, errors.Errorf("tensor %s: float data of %d bytes", t.Name, len(f.b))
			}
			for i := 0; i < len(f.b); i += 4 {
				t.Floats = append(t.Floats, math.Float32frombits(binary.LittleEndian.Uint32(f.b[i:])))
			}
		}
	}
	if raw != nil {
		if t.DataType != Float {
			return t, errors.Errorf("tensor %s: unsupported data type %d", t.Name, t.DataType)
		}
		if len(raw)%4 != 0 {
			return t, errors.Errorf("tensor %s: raw data of %d bytes", t.Name, len(raw))
		}
		t.Floats = make([]float32, len(raw)/4)
		for i := range t.Floats {
			t.Floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
	}
	if int64(len(t.Floats)) != t.Size() {
		return t, errors.Errorf("tensor %s: %d values for dims %v", t.Name, len(t.Floats), t.Dims)
	}
	return t, nil
}

func unmarshalValueInfo(b []byte) (v ValueInfo, err error) {
	fs, err := fields(b)
	if err != nil {
		return v, errors.Wrap(err, "value info")
	}
	for _, f := range fs {
		switch {
		case f.num == valueInfoName && f.typ == protowire.BytesType:
			v.Name = string(f.b)
		case f.num == valueInfoType && f.typ == protowire.BytesType:
			err = nested(f.b, typeTensorType, func(tensor field) error {
				return each(tensor.b, func(tf field) error {
					switch {
					case tf.num == tensorElemType && tf.typ == protowire.VarintType:
						v.ElemType = int32(tf.v)
					case tf.num == tensorShape && tf.typ == protowire.BytesType:
						return nested(tf.b, shapeDim, func(dim field) error {
							var d Dim
							err := each(dim.b, func(df field) error {
								switch {
								case df.num == dimValue && df.typ == protowire.VarintType:
									d.Value = int64(df.v)
								case df.num == dimParam && df.typ == protowire.BytesType:
									d.Param = string(df.b)
								}
								return nil
							})
							v.Shape = append(v.Shape, d)
							return err
						})
					}
					return nil
				})
			})
			if err != nil {
				return v, errors.Wrapf(err, "value info %s", v.Name)
			}
		}
	}
	return v, nil
}

// each calls fn for every field of the message b
func each(b []byte, fn func(field) error) error {
	fs, err := fields(b)
	if err != nil {
		return err
	}
	for _, f := range fs {
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// nested calls fn for every length delimited field num of the message b
func nested(b []byte, num protowire.Number, fn func(field) error) error {
	return each(b, func(f field) error {
		if f.num != num || f.typ != protowire.BytesType {
			return nil
		}
		return fn(f)
	})
}
