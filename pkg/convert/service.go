package convert

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"pandoc-hq/bridge/pkg/apierr"
)

// Service validates conversion requests and drives the engine.
type Service struct {
	engine   Engine
	registry *Registry
}

// NewService creates a conversion service over the given engine and
// format registry.
func NewService(engine Engine, registry *Registry) *Service {
	return &Service{engine: engine, registry: registry}
}

// ConvertText converts text content between formats via stdin/stdout.
func (s *Service) ConvertText(ctx context.Context, content, fromFormat, toFormat string, opts Options) (*Result, error) {
	if err := s.validateFormats(ctx, fromFormat, toFormat); err != nil {
		return nil, err
	}

	args := opts.args(fromFormat, toFormat, "", "")
	output, err := s.engine.Run(ctx, args, []byte(content), fromFormat, toFormat)
	if err != nil {
		return nil, err
	}

	return &Result{
		Content:     output,
		ContentType: ContentTypeOf(toFormat),
		IsBinary:    IsBinary(toFormat),
		FromFormat:  fromFormat,
		ToFormat:    toFormat,
	}, nil
}

// ConvertFile converts file bytes, staging them through a temporary
// directory so binary readers and writers work. An empty fromFormat is
// detected from the filename extension.
func (s *Service) ConvertFile(ctx context.Context, fileBytes []byte, filename, toFormat, fromFormat string, opts Options) (*Result, error) {
	if fromFormat == "" {
		detected, err := DetectFormat(filename)
		if err != nil {
			return nil, err
		}
		fromFormat = detected
	}

	if err := s.validateFormats(ctx, fromFormat, toFormat); err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "bridge-convert-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// Base strips any directory components a client smuggles into the
	// filename.
	inputPath := filepath.Join(tmpDir, filepath.Base(filename))
	outputPath := filepath.Join(tmpDir, "output."+ExtensionFor(toFormat))

	if err := os.WriteFile(inputPath, fileBytes, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write input file: %w", err)
	}

	args := opts.args(fromFormat, toFormat, inputPath, outputPath)
	if _, err := s.engine.Run(ctx, args, nil, fromFormat, toFormat); err != nil {
		return nil, err
	}

	output, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, apierr.NewConversion("Output file was not created", fromFormat, toFormat, "")
	}

	return &Result{
		Content:     output,
		ContentType: ContentTypeOf(toFormat),
		IsBinary:    IsBinary(toFormat),
		FromFormat:  fromFormat,
		ToFormat:    toFormat,
	}, nil
}

// ConvertFileBase64 decodes base64 file content and converts it.
func (s *Service) ConvertFileBase64(ctx context.Context, fileBase64, filename, toFormat, fromFormat string, opts Options) (*Result, error) {
	fileBytes, err := base64.StdEncoding.DecodeString(fileBase64)
	if err != nil {
		return nil, apierr.NewConversion(
			fmt.Sprintf("Invalid base64 encoding: %v", err), "", "", "")
	}
	return s.ConvertFile(ctx, fileBytes, filename, toFormat, fromFormat, opts)
}

// Formats returns the supported format lists.
func (s *Service) Formats(ctx context.Context) FormatList {
	return s.registry.Formats(ctx)
}

// Matrix returns the conversion compatibility matrix.
func (s *Service) Matrix(ctx context.Context) map[string][]string {
	return s.registry.Matrix(ctx)
}

// EngineVersion reports the pandoc version line for health checks.
func (s *Service) EngineVersion(ctx context.Context) string {
	return s.engine.Version(ctx)
}

func (s *Service) validateFormats(ctx context.Context, fromFormat, toFormat string) error {
	if err := s.registry.ValidateInput(ctx, fromFormat); err != nil {
		return err
	}
	return s.registry.ValidateOutput(ctx, toFormat)
}
