// ABOUTME: Tests for ingest command structure and flags
// ABOUTME: Verifies flag defaults and argument validation

package commands

import (
	"strings"
	"testing"
)

func TestNewIngestCmd(t *testing.T) {
	cmd := NewIngestCmd()

	if cmd.Use != "ingest <file>..." {
		t.Errorf("Use = %q, want %q", cmd.Use, "ingest <file>...")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.Long == "" {
		t.Error("Long description should not be empty")
	}
}

func TestIngestCmd_Flags(t *testing.T) {
	cmd := NewIngestCmd()

	tests := []struct {
		flagName string
		defValue string
	}{
		{"max-chunk", "0"},
		{"concurrency", "0"},
		{"retries", "1"},
		{"source-id", ""},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("--%s flag not found", tt.flagName)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("--%s default = %q, want %q", tt.flagName, flag.DefValue, tt.defValue)
			}
		})
	}
}

func TestIngestCmd_ArgsValidation(t *testing.T) {
	cmd := NewIngestCmd()

	if cmd.Args == nil {
		t.Error("Args validator should be set")
	}
}

func TestIngestCmd_SupportedFormats(t *testing.T) {
	cmd := NewIngestCmd()

	for _, format := range []string{".txt", ".md", ".pdf"} {
		if !strings.Contains(cmd.Long, format) {
			t.Errorf("Long description should mention %s support", format)
		}
	}
}
