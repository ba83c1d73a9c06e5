// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// models.go - Model listing, inspection and reload commands for onnxbench.
//
// Commands:
//   onnxbench models                List loaded models
//   onnxbench model <name>          Show one model's input/output signature
//   onnxbench reload <name>         Reload a model from disk
//
// Examples:
//   onnxbench models --json
//   onnxbench model resnet50
//   onnxbench reload resnet50
package cli

import (
	"fmt"

	"github.com/jeranaias/onnxbench/internal/client"
	"github.com/jeranaias/onnxbench/internal/config"
)

// HandleModels handles the "models" command.
func HandleModels(args Args, cfg *config.Config) error {
	c := newClient(args, cfg)
	defer c.Close()

	ctx, cancel := commandContext(args, cfg)
	defer cancel()

	models, err := c.ListModels(ctx)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("models", models).Print()
	}

	fmt.Println(RenderTitle("Loaded Models"))
	fmt.Println()
	if len(models) == 0 {
		fmt.Println(DimStyle.Render("No models loaded."))
		return nil
	}
	for _, m := range models {
		fmt.Printf("%s %s\n",
			HighlightStyle.Render(m.Name),
			DimStyle.Render("v"+m.Version))
		fmt.Println(RenderKV("  Path", m.Path))
		if m.LoadedAt != "" {
			fmt.Println(RenderKV("  Loaded", m.LoadedAt))
		}
		fmt.Println(RenderKV("  Inputs", fmt.Sprintf("%d", len(m.InputNames))))
		fmt.Println(RenderKV("  Outputs", fmt.Sprintf("%d", len(m.OutputNames))))
		fmt.Println()
	}
	return nil
}

// HandleModel handles the "model" command for one model's signature.
func HandleModel(args Args, cfg *config.Config) error {
	name, err := modelName(args, cfg)
	if err != nil {
		return err
	}

	c := newClient(args, cfg)
	defer c.Close()

	ctx, cancel := commandContext(args, cfg)
	defer cancel()

	desc, err := c.GetModel(ctx, name)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("model", desc).Print()
	}

	printModel(desc)
	return nil
}

func printModel(desc *client.ModelDescriptor) {
	fmt.Println(RenderTitle("Model: " + desc.Name))
	fmt.Println()
	fmt.Println(RenderKV("Version", desc.Version))
	fmt.Println(RenderKV("Path", desc.Path))
	if desc.LoadedAt != "" {
		fmt.Println(RenderKV("Loaded", desc.LoadedAt))
	}

	fmt.Println(SectionStyle.Render("Inputs"))
	printTensorSpecs(desc.Inputs)

	fmt.Println(SectionStyle.Render("Outputs"))
	printTensorSpecs(desc.Outputs)
	fmt.Println()
}

func printTensorSpecs(specs []client.TensorSpec) {
	if len(specs) == 0 {
		fmt.Println(DimStyle.Render("  (none declared)"))
		return
	}
	for _, spec := range specs {
		fmt.Printf("  %s  %s %s\n",
			HighlightStyle.Render(spec.Name),
			ValueStyle.Render(summarizeShape(spec.Shape)),
			DimStyle.Render(spec.DType))
	}
}

// HandleReload handles the "reload" command.
func HandleReload(args Args, cfg *config.Config) error {
	name, err := modelName(args, cfg)
	if err != nil {
		return err
	}

	c := newClient(args, cfg)
	defer c.Close()

	ctx, cancel := commandContext(args, cfg)
	defer cancel()

	result, err := c.ReloadModel(ctx, name)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("reload", result).Print()
	}

	fmt.Printf("%s model %s reloaded (status: %s)\n",
		SuccessStyle.Render("[OK]"),
		HighlightStyle.Render(result.Model),
		result.Status)
	return nil
}
