// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tensor

import (
	"fmt"
	"math/rand"
)

// Tensor is an immutable, typed, shaped numeric buffer. Data is stored flat
// in row-major order; len(data) always equals the product of the shape.
// An empty shape denotes a scalar (one element). A zero dimension is valid
// and yields an empty data buffer.
//
// Construct with New, Zeros, or Random, or by decoding a wire value. The
// accessors copy their slices so a constructed tensor cannot be mutated
// through them.
type Tensor struct {
	shape []int64
	dtype DType
	data  []float64
}

// New creates a tensor, validating that the data length matches the shape.
// Dimensions must be non-negative; the dynamic-dimension sentinel (-1) is
// only legal in model descriptors, never in a concrete tensor.
func New(shape []int64, dtype DType, data []float64) (Tensor, error) {
	if !dtypes[dtype] {
		return Tensor{}, fmt.Errorf("unknown dtype %q", dtype)
	}
	n, err := NumElements(shape)
	if err != nil {
		return Tensor{}, err
	}
	if int64(len(data)) != n {
		return Tensor{}, fmt.Errorf("data length %d does not match shape %v (want %d elements)", len(data), shape, n)
	}
	// Normalize to non-nil so a scalar always encodes with an explicit
	// (empty) shape on the wire.
	return Tensor{
		shape: append(make([]int64, 0, len(shape)), shape...),
		dtype: dtype,
		data:  append(make([]float64, 0, len(data)), data...),
	}, nil
}

// Zeros creates a zero-filled tensor of the given shape and dtype.
func Zeros(shape []int64, dtype DType) (Tensor, error) {
	n, err := NumElements(shape)
	if err != nil {
		return Tensor{}, err
	}
	return New(shape, dtype, make([]float64, n))
}

// Random creates a float32 tensor filled with standard-normal values.
// Used to synthesize inference inputs when the caller has no real data,
// mirroring what the server's example clients do.
func Random(shape []int64) (Tensor, error) {
	n, err := NumElements(shape)
	if err != nil {
		return Tensor{}, err
	}
	data := make([]float64, n)
	for i := range data {
		// Round-trip through float32 so the value survives a float32 wire
		// representation exactly.
		data[i] = float64(float32(rand.NormFloat64()))
	}
	return New(shape, Float32, data)
}

// RandomOfType creates a tensor of the given dtype filled with synthetic
// values: standard-normal for float types, small integers otherwise, and
// 0/1 for bool.
func RandomOfType(shape []int64, dtype DType) (Tensor, error) {
	if dtype.IsFloat() {
		t, err := Random(shape)
		if err != nil {
			return Tensor{}, err
		}
		return New(shape, dtype, t.Data())
	}

	n, err := NumElements(shape)
	if err != nil {
		return Tensor{}, err
	}
	data := make([]float64, n)
	for i := range data {
		if dtype == Bool {
			data[i] = float64(rand.Intn(2))
		} else {
			data[i] = float64(rand.Intn(10))
		}
	}
	return New(shape, dtype, data)
}

// Shape returns a copy of the tensor's shape.
func (t Tensor) Shape() []int64 {
	return append([]int64(nil), t.shape...)
}

// DType returns the element type.
func (t Tensor) DType() DType {
	return t.dtype
}

// Data returns a copy of the flat row-major data.
func (t Tensor) Data() []float64 {
	return append([]float64(nil), t.data...)
}

// Len returns the number of elements.
func (t Tensor) Len() int {
	return len(t.data)
}

// Equal reports element-wise equality of shape, dtype, and data.
func (t Tensor) Equal(o Tensor) bool {
	if t.dtype != o.dtype || len(t.shape) != len(o.shape) || len(t.data) != len(o.data) {
		return false
	}
	for i, d := range t.shape {
		if o.shape[i] != d {
			return false
		}
	}
	for i, v := range t.data {
		if o.data[i] != v {
			return false
		}
	}
	return true
}

// String describes the tensor without dumping its data.
func (t Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v, dtype=%s, %d elements)", t.shape, t.dtype, len(t.data))
}

// NumElements returns the product of the shape's dimensions. An empty shape
// is a scalar and has one element. Negative dimensions are rejected.
func NumElements(shape []int64) (int64, error) {
	n := int64(1)
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("negative dimension %d in shape %v", d, shape)
		}
		n *= d
	}
	return n, nil
}

// ConcretizeShape replaces dynamic dimensions (negative sentinel values) from
// a model descriptor shape with 1, producing a shape usable for a concrete
// input tensor.
func ConcretizeShape(spec []int64) []int64 {
	out := make([]int64, len(spec))
	for i, d := range spec {
		if d < 0 {
			out[i] = 1
		} else {
			out[i] = d
		}
	}
	return out
}
