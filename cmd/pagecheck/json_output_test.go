package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

func TestWriteJSONKeepsNotesReadable(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	if err := writeJSON(cmd, map[string]string{"note": "A&B <torn>"}); err != nil {
		t.Fatalf("writeJSON failed: %v", err)
	}
	want := "{\n  \"note\": \"A&B <torn>\"\n}\n"
	if out.String() != want {
		t.Fatalf("writeJSON = %q, want %q", out.String(), want)
	}
}
