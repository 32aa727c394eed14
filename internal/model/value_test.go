package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nan() float64 { return math.NaN() }

func TestValueOf(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{"nil", nil, Null{}},
		{"string", "x", String("x")},
		{"int", 3, Int(3)},
		{"float", 0.75, Float(0.75)},
		{"bool", true, Bool(true)},
		{"json int", json.Number("12"), Int(12)},
		{"json float", json.Number("1.5"), Float(1.5)},
		{"json exponent", json.Number("1e2"), Float(100)},
		{"list", []any{"a", 1}, Array{String("a"), Int(1)}},
		{"map", map[string]any{"k": "v"}, Object{"k": String("v")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueOf(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueOfRejects(t *testing.T) {
	_, err := ValueOf(math.Inf(1))
	assert.Error(t, err)

	_, err = ValueOf(struct{}{})
	assert.Error(t, err)

	_, err = ValueOf(map[string]any{"bad": []any{math.NaN()}})
	assert.Error(t, err)
}

func TestObjectJSONRoundTrip(t *testing.T) {
	var obj Object
	err := json.Unmarshal([]byte(`{"b":1,"a":[true,null,"x"],"c":0.5}`), &obj)
	require.NoError(t, err)

	assert.Equal(t, Int(1), obj["b"])
	assert.Equal(t, Float(0.5), obj["c"])
	assert.Equal(t, Array{Bool(true), Null{}, String("x")}, obj["a"])

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":[true,null,"x"],"b":1,"c":0.5}`, string(data))
}

func TestObjectCloneIsDeep(t *testing.T) {
	orig := Object{"list": Array{String("a")}, "nested": Object{"k": Int(1)}}
	clone := orig.Clone()

	clone["list"].(Array)[0] = String("changed")
	clone["nested"].(Object)["k"] = Int(2)

	assert.Equal(t, String("a"), orig["list"].(Array)[0])
	assert.Equal(t, Int(1), orig["nested"].(Object)["k"])

	var nilObj Object
	assert.Nil(t, nilObj.Clone())
}
