// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tensor

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// =============================================================================
// CODEC ERRORS
// =============================================================================

// EncodingError reports a tensor that cannot be serialized to the wire form.
type EncodingError struct {
	Message string
}

func (e *EncodingError) Error() string {
	return "tensor encoding: " + e.Message
}

// DecodingError reports a wire value that cannot be reconstructed into a
// valid tensor: missing or negative shape, data length disagreeing with the
// shape's product, non-numeric data, or an unrecognized dtype.
type DecodingError struct {
	Message string
	Cause   error
}

func (e *DecodingError) Error() string {
	if e.Cause != nil {
		return "tensor decoding: " + e.Message + ": " + e.Cause.Error()
	}
	return "tensor decoding: " + e.Message
}

func (e *DecodingError) Unwrap() error {
	return e.Cause
}

// =============================================================================
// WIRE FORM
// =============================================================================

// Wire is the JSON representation of a tensor: shape as an ordered integer
// list, data as a flat row-major number list, and the canonical dtype name.
// json.Number keeps integers as integers and floats as floats in both
// directions.
type Wire struct {
	Shape []int64       `json:"shape"`
	Data  []json.Number `json:"data"`
	DType string        `json:"dtype"`
}

// Encode serializes a tensor into its wire form. Integer dtypes are rendered
// as integer literals, float dtypes as float literals.
func Encode(t Tensor) (Wire, error) {
	if !dtypes[t.dtype] {
		return Wire{}, &EncodingError{Message: fmt.Sprintf("unknown dtype %q", t.dtype)}
	}
	n, err := NumElements(t.shape)
	if err != nil {
		return Wire{}, &EncodingError{Message: err.Error()}
	}
	if int64(len(t.data)) != n {
		return Wire{}, &EncodingError{
			Message: fmt.Sprintf("data length %d does not match shape %v (want %d elements)", len(t.data), t.shape, n),
		}
	}

	data := make([]json.Number, len(t.data))
	if t.dtype.IsFloat() {
		for i, v := range t.data {
			data[i] = json.Number(strconv.FormatFloat(v, 'g', -1, 64))
		}
	} else {
		for i, v := range t.data {
			data[i] = json.Number(strconv.FormatInt(int64(v), 10))
		}
	}

	return Wire{
		Shape: append(make([]int64, 0, len(t.shape)), t.shape...),
		Data:  data,
		DType: t.dtype.String(),
	}, nil
}

// Decode reconstructs a tensor from its wire form. The flat data sequence is
// kept in row-major order; no elements are reordered.
func Decode(w Wire) (Tensor, error) {
	if w.Shape == nil {
		return Tensor{}, &DecodingError{Message: "missing shape"}
	}
	dtype, err := ParseDType(w.DType)
	if err != nil {
		return Tensor{}, &DecodingError{Message: err.Error()}
	}
	n, err := NumElements(w.Shape)
	if err != nil {
		// Dynamic (-1) dimensions are descriptor-only; a concrete payload
		// must carry fully resolved dimensions.
		return Tensor{}, &DecodingError{Message: err.Error()}
	}
	if int64(len(w.Data)) != n {
		return Tensor{}, &DecodingError{
			Message: fmt.Sprintf("data length %d does not match shape %v (want %d elements)", len(w.Data), w.Shape, n),
		}
	}

	data := make([]float64, len(w.Data))
	if dtype.IsFloat() {
		for i, num := range w.Data {
			v, err := num.Float64()
			if err != nil {
				return Tensor{}, &DecodingError{Message: fmt.Sprintf("non-numeric data element at index %d", i), Cause: err}
			}
			data[i] = v
		}
	} else {
		for i, num := range w.Data {
			v, err := num.Int64()
			if err != nil {
				// Servers may legitimately return float-typed output for an
				// integer-declared tensor; accept any numeric value.
				f, ferr := num.Float64()
				if ferr != nil {
					return Tensor{}, &DecodingError{Message: fmt.Sprintf("non-numeric data element at index %d", i), Cause: ferr}
				}
				data[i] = f
				continue
			}
			data[i] = float64(v)
		}
	}

	return Tensor{
		shape: append(make([]int64, 0, len(w.Shape)), w.Shape...),
		dtype: dtype,
		data:  data,
	}, nil
}
