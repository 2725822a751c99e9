package customform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type valueKind uint8

const (
	valueAbsent valueKind = iota
	valueString
	valueNumber
	valueBool
)

// Value is a prompt response: absent, a string, a number or a boolean.
// The zero Value is absent.
type Value struct {
	kind valueKind
	str  string
	num  float64
	b    bool
}

func StringValue(s string) Value  { return Value{kind: valueString, str: s} }
func NumberValue(f float64) Value { return Value{kind: valueNumber, num: f} }
func BoolValue(b bool) Value      { return Value{kind: valueBool, b: b} }

func (v Value) IsAbsent() bool { return v.kind == valueAbsent }

// IsZero reports whether v is absent (used by yaml omitempty).
func (v Value) IsZero() bool { return v.IsAbsent() }

// IsEmpty reports whether v is absent or the empty string.
// A present false or 0 is not empty.
func (v Value) IsEmpty() bool {
	return v.kind == valueAbsent || (v.kind == valueString && v.str == "")
}

func (v Value) AsString() (string, bool) { return v.str, v.kind == valueString }
func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == valueBool }

// AsInt parses v as an integer: numbers are truncated, strings must hold an integer.
func (v Value) AsInt() (int, bool) {
	switch v.kind {
	case valueNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return 0, false
		}
		return int(v.num), true
	case valueString:
		i, err := strconv.Atoi(strings.TrimSpace(v.str))
		return i, err == nil
	}
	return 0, false
}

// String stringifies v for submission; absent is "".
func (v Value) String() string {
	switch v.kind {
	case valueString:
		return v.str
	case valueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case valueBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

func (v Value) interfaceValue() interface{} {
	switch v.kind {
	case valueString:
		return v.str
	case valueNumber:
		return v.num
	case valueBool:
		return v.b
	}
	return nil
}

func valueFromInterface(i interface{}) (Value, error) {
	switch x := i.(type) {
	case nil:
		return Value{}, nil
	case string:
		return StringValue(x), nil
	case float64:
		return NumberValue(x), nil
	case int:
		return NumberValue(float64(x)), nil
	case bool:
		return BoolValue(x), nil
	}
	return Value{}, fmt.Errorf("unsupported response value %v (%T)", i, i)
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.interfaceValue())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value{}
		return nil
	}
	var i interface{}
	if err := json.Unmarshal(data, &i); err != nil {
		return err
	}
	val, err := valueFromInterface(i)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func (v Value) MarshalYAML() (interface{}, error) {
	return v.interfaceValue(), nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: response value must be a scalar", node.Line)
	}
	switch node.Tag {
	case "!!null":
		*v = Value{}
		return nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = BoolValue(b)
		return nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = NumberValue(f)
		return nil
	}
	*v = StringValue(node.Value)
	return nil
}
