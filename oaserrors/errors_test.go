package oaserrors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestInputError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &InputError{Path: "out/roadmap-openapi.json", Role: "generated", Cause: os.ErrNotExist}
		want := "input error (generated): out/roadmap-openapi.json: file does not exist"
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &InputError{}
		if err.Error() != "input error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrInput and cause", func(t *testing.T) {
		err := &InputError{Path: "x.json", Cause: os.ErrNotExist}
		if !errors.Is(err, ErrInput) {
			t.Error("InputError should match ErrInput")
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Error("InputError should unwrap to its cause")
		}
		if errors.Is(err, ErrParse) {
			t.Error("InputError should not match ErrParse")
		}
	})
}

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &ParseError{
			Path:    "/path/to/file.json",
			Line:    42,
			Column:  10,
			Message: "invalid syntax",
			Cause:   cause,
		}

		msg := err.Error()
		if msg != "parse error in /path/to/file.json at line 42, column 10: invalid syntax: underlying error" {
			t.Errorf("unexpected error message: %s", msg)
		}
	})

	t.Run("Error message with line only", func(t *testing.T) {
		err := &ParseError{Line: 10}
		if err.Error() != "parse error at line 10" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Unwrap returns nil when no cause", func(t *testing.T) {
		err := &ParseError{}
		if err.Unwrap() != nil {
			t.Error("Unwrap should return nil when no cause")
		}
	})

	t.Run("As extracts ParseError through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("loading: %w", &ParseError{Path: "api.json"})
		var parseErr *ParseError
		if !errors.As(wrapped, &parseErr) {
			t.Fatal("errors.As should extract ParseError")
		}
		if parseErr.Path != "api.json" {
			t.Errorf("unexpected path: %s", parseErr.Path)
		}
		if !errors.Is(wrapped, ErrParse) {
			t.Error("wrapped ParseError should match ErrParse")
		}
	})
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "format", Value: "xml", Message: "must be text, json, or yaml"}
	want := "configuration error for format (value: xml): must be text, json, or yaml"
	if err.Error() != want {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrConfig) {
		t.Error("ConfigError should match ErrConfig")
	}
	if errors.Is(err, ErrApply) {
		t.Error("ConfigError should not match ErrApply")
	}
}

func TestApplyError(t *testing.T) {
	t.Run("action error", func(t *testing.T) {
		err := &ApplyError{Source: "metadata", ActionIndex: 1, Target: "$.info", Cause: errors.New("boom")}
		want := `apply error in metadata at action[1] (target "$.info"): boom`
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("document patch error", func(t *testing.T) {
		err := &ApplyError{Source: "extra.json", ActionIndex: -1}
		if err.Error() != "apply error in extra.json" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
		if !errors.Is(err, ErrApply) {
			t.Error("ApplyError should match ErrApply")
		}
	})
}
