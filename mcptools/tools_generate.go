package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/castrlabs/castr/generator"
	"github.com/castrlabs/castr/internal/pathutil"
)

type generateInput struct {
	Spec             specInput `json:"spec"                         jsonschema:"The OpenAPI document to generate Go code from"`
	PackageName      string    `json:"package_name,omitempty"       jsonschema:"Go package name for generated code (default: api)"`
	NoValidationTags bool      `json:"no_validation_tags,omitempty" jsonschema:"Omit validate struct tags from generated types"`
	NoEndpoints      bool      `json:"no_endpoints,omitempty"       jsonschema:"Omit the endpoints metadata file"`
	OutputDir        string    `json:"output_dir,omitempty"         jsonschema:"Directory to write generated files to; omit to return file contents inline"`
}

type generatedFileInfo struct {
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Content string `json:"content,omitempty"`
}

type generateOutput struct {
	Success             bool                `json:"success"`
	PackageName         string              `json:"package_name"`
	OutputDir           string              `json:"output_dir,omitempty"`
	FileCount           int                 `json:"file_count"`
	Files               []generatedFileInfo `json:"files"`
	GeneratedTypes      int                 `json:"generated_types"`
	GeneratedEnums      int                 `json:"generated_enums"`
	GeneratedOperations int                 `json:"generated_operations"`
	WarningCount        int                 `json:"warning_count"`
	CriticalCount       int                 `json:"critical_count"`
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	spec, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	var opts []generator.Option
	if input.PackageName != "" {
		opts = append(opts, generator.WithPackageName(input.PackageName))
	}
	if input.NoValidationTags {
		opts = append(opts, generator.WithValidationTags(false))
	}
	if input.NoEndpoints {
		opts = append(opts, generator.WithEndpoints(false))
	}

	result, err := generator.Generate(spec.doc, opts...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	inline := input.OutputDir == ""
	if inline {
		var total int64
		for _, f := range result.Files {
			total += int64(len(f.Content))
		}
		if total > cfg.MaxInlineSize {
			return errResult(fmt.Errorf("generated output is %d bytes, over the %d byte inline limit; set output_dir to write files to disk instead", total, cfg.MaxInlineSize)), generateOutput{}, nil
		}
	} else {
		cleanDir, pathErr := pathutil.SanitizeOutputPath(input.OutputDir)
		if pathErr != nil {
			return errResult(pathErr), generateOutput{}, nil
		}
		if err := result.WriteFiles(cleanDir); err != nil {
			return errResult(fmt.Errorf("failed to write generated files: %w", err)), generateOutput{}, nil
		}
	}

	output := generateOutput{
		Success:             result.Success,
		PackageName:         result.PackageName,
		OutputDir:           input.OutputDir,
		FileCount:           len(result.Files),
		GeneratedTypes:      result.GeneratedTypes,
		GeneratedEnums:      result.GeneratedEnums,
		GeneratedOperations: result.GeneratedOperations,
		WarningCount:        result.WarningCount,
		CriticalCount:       result.CriticalCount,
	}
	output.Files = makeSlice[generatedFileInfo](len(result.Files))
	for _, f := range result.Files {
		info := generatedFileInfo{Name: f.Name, Size: len(f.Content)}
		if inline {
			info.Content = string(f.Content)
		}
		output.Files = append(output.Files, info)
	}

	return nil, output, nil
}
