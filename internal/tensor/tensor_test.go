// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New([]int64{2, 3}, Float32, make([]float64, 6))
	require.NoError(t, err)

	_, err = New([]int64{2, 3}, Float32, make([]float64, 5))
	assert.Error(t, err, "data length must match shape product")

	_, err = New([]int64{-1, 3}, Float32, []float64{})
	assert.Error(t, err, "dynamic dimensions are not valid in concrete tensors")

	_, err = New([]int64{2}, DType("float16"), []float64{1, 2})
	assert.Error(t, err, "unrecognized dtype must be rejected")

	// Scalar: empty shape, exactly one element.
	s, err := New(nil, Float64, []float64{7})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	// Zero dimension: valid, empty data.
	e, err := New([]int64{0}, Float32, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Len())
}

func TestTensorImmutability(t *testing.T) {
	shape := []int64{2}
	data := []float64{1, 2}
	tt, err := New(shape, Float32, data)
	require.NoError(t, err)

	// Mutating the inputs or accessor results must not affect the tensor.
	shape[0] = 99
	data[0] = 99
	tt.Shape()[0] = 99
	tt.Data()[0] = 99

	assert.Equal(t, []int64{2}, tt.Shape())
	assert.Equal(t, []float64{1, 2}, tt.Data())
}

func TestNumElements(t *testing.T) {
	cases := []struct {
		shape []int64
		want  int64
	}{
		{[]int64{}, 1},
		{[]int64{5}, 5},
		{[]int64{2, 3, 4}, 24},
		{[]int64{0}, 0},
		{[]int64{3, 0, 2}, 0},
	}
	for _, tc := range cases {
		n, err := NumElements(tc.shape)
		require.NoError(t, err)
		assert.Equal(t, tc.want, n, "shape %v", tc.shape)
	}

	_, err := NumElements([]int64{2, -1})
	assert.Error(t, err)
}

func TestConcretizeShape(t *testing.T) {
	assert.Equal(t, []int64{1, 3, 224, 224}, ConcretizeShape([]int64{-1, 3, 224, 224}))
	assert.Equal(t, []int64{4, 5}, ConcretizeShape([]int64{4, 5}))
	assert.Equal(t, []int64{}, ConcretizeShape([]int64{}))
}

func TestZeros(t *testing.T) {
	z, err := Zeros([]int64{2, 3}, Int32)
	require.NoError(t, err)
	assert.Equal(t, Int32, z.DType())
	assert.Equal(t, 6, z.Len())
	for _, v := range z.Data() {
		assert.Zero(t, v)
	}

	want, err := New([]int64{2, 3}, Int32, make([]float64, 6))
	require.NoError(t, err)
	assert.True(t, z.Equal(want))

	// Empty shape is a scalar with one element
	s, err := Zeros(nil, Float32)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	_, err = Zeros([]int64{2, -1}, Float32)
	assert.Error(t, err)
}

func TestRandomMatchesShape(t *testing.T) {
	tt, err := Random([]int64{2, 8})
	require.NoError(t, err)
	assert.Equal(t, Float32, tt.DType())
	assert.Equal(t, 16, tt.Len())

	// Random values round-trip through the float32 wire form exactly.
	wire, err := Encode(tt)
	require.NoError(t, err)
	back, err := Decode(wire)
	require.NoError(t, err)
	assert.True(t, back.Equal(tt))
}
