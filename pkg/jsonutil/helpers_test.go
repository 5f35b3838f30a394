package jsonutil

import (
	"bytes"
	"testing"
)

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, map[string]string{"track": "Spa & Co"}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := "{\n  \"track\": \"Spa & Co\"\n}\n"
	if buf.String() != want {
		t.Errorf("Encode = %q, want %q", buf.String(), want)
	}
}

func TestEncodeUnsupported(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, make(chan int)); err == nil {
		t.Error("expected error for channel value")
	}
}
