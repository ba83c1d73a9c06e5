// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tensor provides the typed tensor value and its JSON wire codec
// for talking to the ONNX inference server.
package tensor

import "fmt"

// DType identifies the element type of a tensor. The string value is the
// canonical wire name understood by the server.
type DType string

const (
	Float32 DType = "float32"
	Float64 DType = "float64"
	Int8    DType = "int8"
	Uint8   DType = "uint8"
	Int16   DType = "int16"
	Int32   DType = "int32"
	Int64   DType = "int64"
	Bool    DType = "bool"
)

// dtypes is the set of recognized element types.
var dtypes = map[DType]bool{
	Float32: true,
	Float64: true,
	Int8:    true,
	Uint8:   true,
	Int16:   true,
	Int32:   true,
	Int64:   true,
	Bool:    true,
}

// ParseDType validates a wire dtype string.
func ParseDType(s string) (DType, error) {
	d := DType(s)
	if !dtypes[d] {
		return "", fmt.Errorf("unknown dtype %q", s)
	}
	return d, nil
}

// IsFloat reports whether the element type is a floating-point type.
// Integer and bool tensors are rendered as integers on the wire.
func (d DType) IsFloat() bool {
	return d == Float32 || d == Float64
}

// String returns the canonical wire name.
func (d DType) String() string {
	return string(d)
}
