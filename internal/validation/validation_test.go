package validation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := map[string]struct {
		name    string
		wantErr bool
	}{
		"typical":        {name: "IDS_HELLO"},
		"lower case":     {name: "ids_hello2"},
		"leading under":  {name: "_IDS"},
		"empty":          {name: "", wantErr: true},
		"leading digit":  {name: "1IDS", wantErr: true},
		"space":          {name: "IDS HELLO", wantErr: true},
		"dash":           {name: "IDS-HELLO", wantErr: true},
		"non ascii":      {name: "IDS_ÉTÉ", wantErr: true},
		"quote":          {name: `IDS"`, wantErr: true},
		"digits inside":  {name: "IDS_2024_TITLE"},
		"single letter":  {name: "A"},
		"only underline": {name: "_"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			var ve *Error
			if err != nil && !errors.As(err, &ve) {
				t.Errorf("expected *Error, got %T", err)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	for _, id := range []int{0, 1, 101, 32767, MaxID} {
		if err := ValidateID(id); err != nil {
			t.Errorf("ValidateID(%d) = %v", id, err)
		}
	}
	for _, id := range []int{-1, MaxID + 1} {
		if err := ValidateID(id); err == nil {
			t.Errorf("ValidateID(%d) should fail", id)
		}
	}
}

func TestValidateAdd(t *testing.T) {
	id := func(n int) *int { return &n }

	tests := map[string]struct {
		name         string
		value        string
		id           *int
		wantValid    bool
		wantWarnings int
	}{
		"valid":        {name: "IDS_A", value: "Hello", id: id(5), wantValid: true},
		"generated id": {name: "IDS_A", value: "Hello", wantValid: true},
		"empty value":  {name: "IDS_A", value: "", wantValid: true, wantWarnings: 1},
		"line break":   {name: "IDS_A", value: "one\ntwo", wantValid: true, wantWarnings: 1},
		"bad name":     {name: "IDS A", value: "x"},
		"bad id":       {name: "IDS_A", value: "x", id: id(70000)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result := ValidateAdd(tt.name, tt.value, tt.id)
			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if len(result.Warnings) != tt.wantWarnings {
				t.Errorf("Warnings = %v, want %d", result.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestValidateFile(t *testing.T) {
	tmpDir := t.TempDir()
	rc := filepath.Join(tmpDir, "app.rc")
	// #nosec G306 - test file permissions are acceptable
	if err := os.WriteFile(rc, []byte("STRINGTABLE\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateFile(rc, "rc file"); err != nil {
		t.Errorf("ValidateFile(existing) = %v", err)
	}
	if err := ValidateFile("", "rc file"); err == nil {
		t.Error("expected error for empty path")
	}
	if err := ValidateFile(tmpDir, "rc file"); err == nil || !strings.Contains(err.Error(), "not a regular file") {
		t.Errorf("expected directory error, got %v", err)
	}

	err := ValidateFile(filepath.Join(tmpDir, "missing.rc"), "rc file")
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestValidateRCFile(t *testing.T) {
	tmpDir := t.TempDir()
	rc := filepath.Join(tmpDir, "app.RC")
	other := filepath.Join(tmpDir, "app.txt")
	for _, p := range []string{rc, other} {
		// #nosec G306 - test file permissions are acceptable
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if r := ValidateRCFile(rc); !r.Valid || len(r.Warnings) != 0 {
		t.Errorf("ValidateRCFile(.RC) = %+v", r)
	}
	if r := ValidateRCFile(other); !r.Valid || len(r.Warnings) != 1 {
		t.Errorf("ValidateRCFile(.txt) = %+v", r)
	}
	if r := ValidateRCFile(filepath.Join(tmpDir, "none.rc")); r.Valid {
		t.Error("expected missing file to be invalid")
	}
}

func TestValidateWritable(t *testing.T) {
	tmpDir := t.TempDir()
	if err := ValidateWritable(filepath.Join(tmpDir, "app.rc")); err != nil {
		t.Errorf("ValidateWritable() = %v", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("probe file left behind: %v", entries)
	}

	if err := ValidateWritable(filepath.Join(tmpDir, "missing", "app.rc")); err == nil {
		t.Error("expected error for a missing directory")
	}
}

func TestResult_Error(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		result := &Result{Valid: true}
		if err := result.Error(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("single error", func(t *testing.T) {
		result := &Result{
			Valid:  false,
			Errors: []error{errors.New("test error")},
		}
		if err := result.Error(); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		result := &Result{
			Valid:  false,
			Errors: []error{errors.New("error 1"), errors.New("error 2")},
		}
		if err := result.Error(); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestResult_Summary(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		result := &Result{Valid: true}
		if summary := result.Summary(); summary != "All validations passed" {
			t.Errorf("unexpected summary: %s", summary)
		}
	})

	t.Run("valid with warnings", func(t *testing.T) {
		result := &Result{
			Valid:    true,
			Warnings: []string{"warning 1", "warning 2"},
		}
		if summary := result.Summary(); summary != "Validation passed with warnings (2 warning(s))" {
			t.Errorf("unexpected summary: %s", summary)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		result := &Result{
			Valid:    false,
			Warnings: []string{"warning 1"},
		}
		if summary := result.Summary(); summary != "Validation failed (1 warning(s))" {
			t.Errorf("unexpected summary: %s", summary)
		}
	})
}

func TestValidationError_Error(t *testing.T) {
	t.Run("with underlying error", func(t *testing.T) {
		err := &Error{
			Field:   "test",
			Message: "failed",
			Err:     errors.New("underlying"),
		}
		if msg := err.Error(); msg == "" {
			t.Error("expected non-empty error message")
		}
	})

	t.Run("without underlying error", func(t *testing.T) {
		err := &Error{
			Field:   "test",
			Message: "failed",
		}
		if msg := err.Error(); msg == "" {
			t.Error("expected non-empty error message")
		}
	})
}
