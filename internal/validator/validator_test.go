package validator

import (
	"testing"

	"github.com/stemsi/exstem-grader/internal/model"
)

func TestValidateIngestRequest(t *testing.T) {
	Setup()

	fields := Validate(&model.IngestRequest{})
	if fields == nil {
		t.Fatal("missing file should fail validation")
	}
	if msg := fields["file"]; msg != "file is a required field" {
		t.Errorf("file message = %q (all: %v)", msg, fields)
	}

	empty := ""
	if fields := Validate(&model.IngestRequest{File: &empty}); fields != nil {
		t.Errorf("present but empty file should pass, got %v", fields)
	}
}

func TestFirstError(t *testing.T) {
	fields := map[string]string{"a": "bad a", "b": "bad b"}
	if got := FirstError(fields, "b", "a"); got != "bad b" {
		t.Errorf("FirstError = %q", got)
	}
	if got := FirstError(map[string]string{"x": "only"}); got != "only" {
		t.Errorf("FirstError = %q", got)
	}
	if got := FirstError(nil); got != "" {
		t.Errorf("FirstError(nil) = %q", got)
	}
}
