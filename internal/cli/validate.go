package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/cricscore/internal/config"
	"github.com/roach88/cricscore/internal/harness"
)

// skipConfigAnnotation marks commands that resolve the config themselves.
const skipConfigAnnotation = "cricscore/skip-config"

// Validation error codes.
const (
	ErrCodeConfig   = "E_CONFIG"
	ErrCodeScenario = "E_SCENARIO"
	ErrCodePath     = "E_PATH"
)

// ValidationError is one problem found by validate.
type ValidationError struct {
	File    string `json:"file"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Config    string            `json:"config,omitempty"` // file checked, "" for defaults
	Scenarios int               `json:"scenarios"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [scenario files or dirs...]",
		Short: "Validate the config and scenario files",
		Long: `Validate the resolved config against its schema and parse scenario
files without running them.

The config is the --config file, or the nearest .cricscore/config.yaml,
with environment overrides applied. Unknown keys are errors.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		Annotations:   map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
	result := ValidationResult{}

	dir, err := os.Getwd()
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot determine working directory", err)
	}
	result.Config = opts.ConfigPath
	if result.Config == "" {
		result.Config = config.FindConfigFile(dir)
	}
	if _, err := config.Resolve(opts.ConfigPath, dir); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			File:    displayPath(result.Config),
			Code:    ErrCodeConfig,
			Message: err.Error(),
		})
	} else {
		formatter.VerboseLog("Config %s is valid", displayPath(result.Config))
	}

	for _, path := range paths {
		files, err := scenarioPaths(path)
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{File: path, Code: ErrCodePath, Message: err.Error()})
			continue
		}
		for _, file := range files {
			result.Scenarios++
			if _, err := harness.LoadScenario(file); err != nil {
				result.Errors = append(result.Errors, ValidationError{File: file, Code: ErrCodeScenario, Message: err.Error()})
				continue
			}
			formatter.VerboseLog("Scenario %s is valid", file)
		}
	}

	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}
	result.Valid = true
	return outputValidateSuccess(formatter, result)
}

// scenarioPaths expands a directory to its scenario files.
func scenarioPaths(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return harness.FindScenarioFiles(path, "")
}

func displayPath(path string) string {
	if path == "" {
		return "(defaults)"
	}
	return path
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Config valid: %s\n", displayPath(result.Config))
	if result.Scenarios > 0 {
		fmt.Fprintf(formatter.Writer, "✓ %d scenario(s) valid\n", result.Scenarios)
	}
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "%s\n", err.File)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
