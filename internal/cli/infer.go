// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// infer.go - Single-inference command for onnxbench.
//
// Command: infer
// Short:   Run one inference against a model with synthetic inputs
//
// Inputs are generated from the model's declared signature: random values
// in each input's dtype, dynamic dimensions concretized to 1 unless a
// --shape override pins them. With --input FILE the tensors come from a
// JSON file in the wire form {"name": {"shape": [...], "data": [...],
// "dtype": "float32"}, ...} instead.
//
// Examples:
//   onnxbench infer resnet50
//   onnxbench infer resnet50 --shape input=1x3x224x224
//   onnxbench infer resnet50 --input request.json
//   onnxbench infer bert-base --json
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jeranaias/onnxbench/internal/config"
	"github.com/jeranaias/onnxbench/internal/tensor"
)

// inferOutput summarizes one output tensor for display.
type inferOutput struct {
	Name     string    `json:"name"`
	Shape    []int64   `json:"shape"`
	DType    string    `json:"dtype"`
	Elements int       `json:"elements"`
	Preview  []float64 `json:"preview,omitempty"`
}

// inferData is the JSON payload for the infer command.
type inferData struct {
	Model       string        `json:"model"`
	Outputs     []inferOutput `json:"outputs"`
	TotalMS     float64       `json:"total_ms"`
	InferenceMS *float64      `json:"inference_ms,omitempty"`
	QueueMS     *float64      `json:"queue_ms,omitempty"`
}

// previewElements caps how many values of each output are shown.
const previewElements = 8

// HandleInfer handles the "infer" command.
func HandleInfer(args Args, cfg *config.Config) error {
	name, err := modelName(args, cfg)
	if err != nil {
		return err
	}
	overrides, err := parseShapeOverrides(args.Shapes)
	if err != nil {
		return err
	}

	c := newClient(args, cfg)
	defer c.Close()

	ctx, cancel := commandContext(args, cfg)
	defer cancel()

	var inputs map[string]tensor.Tensor
	if path := args.Options["input"]; path != "" {
		if len(overrides) > 0 {
			return NewUsageError(
				"--shape cannot be combined with --input",
				"shapes in the input file are used as-is",
			)
		}
		inputs, err = loadInputsFile(path)
		if err != nil {
			return err
		}
	} else {
		desc, err := c.GetModel(ctx, name)
		if err != nil {
			return err
		}
		inputs, err = buildInputs(desc, overrides)
		if err != nil {
			return err
		}
	}

	start := time.Now()
	resp, err := c.Infer(ctx, name, inputs)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	data := inferData{
		Model:   resp.ModelName,
		TotalMS: float64(elapsed.Microseconds()) / 1000.0,
	}
	if resp.Timing != nil {
		data.InferenceMS = &resp.Timing.InferenceMS
		data.QueueMS = &resp.Timing.QueueMS
	}

	// Sort output names so the rendering is stable
	names := make([]string, 0, len(resp.Outputs))
	for n := range resp.Outputs {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		out := resp.Outputs[n]
		data.Outputs = append(data.Outputs, summarizeOutput(n, out))
	}

	if args.JSON {
		return NewJSONResponse("infer", data).Print()
	}

	printInference(data)
	return nil
}

// loadInputsFile reads input tensors from a JSON file keyed by input name,
// each entry in the wire form {"shape", "data", "dtype"}.
func loadInputsFile(path string) (map[string]tensor.Tensor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var wires map[string]tensor.Wire
	if err := dec.Decode(&wires); err != nil {
		return nil, fmt.Errorf("invalid input file %s: %w", path, err)
	}
	if len(wires) == 0 {
		return nil, NewUsageError(
			fmt.Sprintf("input file %s contains no tensors", path),
			`expected {"name": {"shape": [...], "data": [...], "dtype": "float32"}}`,
		)
	}

	inputs := make(map[string]tensor.Tensor, len(wires))
	for name, w := range wires {
		t, err := tensor.Decode(w)
		if err != nil {
			return nil, fmt.Errorf("invalid tensor %q in %s: %w", name, path, err)
		}
		inputs[name] = t
	}
	return inputs, nil
}

func summarizeOutput(name string, t tensor.Tensor) inferOutput {
	values := t.Data()
	preview := values
	if len(preview) > previewElements {
		preview = preview[:previewElements]
	}
	return inferOutput{
		Name:     name,
		Shape:    t.Shape(),
		DType:    t.DType().String(),
		Elements: t.Len(),
		Preview:  preview,
	}
}

func printInference(data inferData) {
	fmt.Println(RenderTitle("Inference: " + data.Model))
	fmt.Println()

	fmt.Println(SectionStyle.Render("Outputs"))
	for _, out := range data.Outputs {
		fmt.Printf("  %s  %s %s\n",
			HighlightStyle.Render(out.Name),
			ValueStyle.Render(summarizeShape(out.Shape)),
			DimStyle.Render(out.DType))
		if len(out.Preview) > 0 {
			suffix := ""
			if out.Elements > len(out.Preview) {
				suffix = fmt.Sprintf(" ... (%d total)", out.Elements)
			}
			fmt.Printf("    %s%s\n",
				DimStyle.Render(fmt.Sprintf("%.4g", out.Preview)),
				DimStyle.Render(suffix))
		}
	}

	fmt.Println(SectionStyle.Render("Timing"))
	fmt.Println(RenderKV("Round trip", fmt.Sprintf("%.2f ms", data.TotalMS)))
	if data.InferenceMS != nil {
		fmt.Println(RenderKV("Inference", fmt.Sprintf("%.2f ms", *data.InferenceMS)))
	}
	if data.QueueMS != nil {
		fmt.Println(RenderKV("Queue", fmt.Sprintf("%.2f ms", *data.QueueMS)))
	}
	fmt.Println()
}
