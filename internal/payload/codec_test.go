// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"bytes"
	stdgzip "compress/gzip"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// helloWorld is "hello world" compressed by a different gzip implementation
// (Python's gzip module with mtime=0), the way a browser-side sender would.
const helloWorld = "H4sIAAAAAAACA8tIzcnJVyjPL8pJAQCFEUoNCwAAAA=="

func TestDecode_KnownVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		encoded string
		want    string
	}{
		{name: "foreign gzip", encoded: helloWorld, want: "hello world"},
		{
			name:    "quotes and backslashes",
			encoded: "H4sIAAAAAAACA9PVTSvNySlOLkpNzVNQcraK8a1UCMtMSc0vjklUSNLLzS5TAgACQBaOIwAAAA==",
			want:    `--fullscreen "C:\My Videos\a b.mkv"`,
		},
		{name: "percent-escaped padding", encoded: strings.ReplaceAll(helloWorld, "=", "%3D"), want: "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Codec{}.Decode(tt.encoded)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode_Failures(t *testing.T) {
	t.Parallel()

	valid, err := Encode("a fairly long argument string that compresses")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(valid)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	truncated := base64.StdEncoding.EncodeToString(raw[:len(raw)-6])

	tests := []struct {
		name       string
		codec      Codec
		encoded    string
		wantReason string
	}{
		{name: "not base64", encoded: "not-valid-base64!!", wantReason: ReasonBase64},
		{name: "missing padding", encoded: "QUJ", wantReason: ReasonBase64},
		{name: "base64 but not gzip", encoded: "QUJD", wantReason: ReasonCompression},
		{name: "empty payload", encoded: "", wantReason: ReasonCompression},
		{name: "truncated stream", encoded: truncated, wantReason: ReasonCompression},
		{name: "invalid utf-8", encoded: "H4sIAAAAAAACA/v/DwCWMPiIAgAAAA==", wantReason: ReasonText},
		{name: "over size limit", codec: NewCodec(5), encoded: helloWorld, wantReason: ReasonTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.codec.Decode(tt.encoded)
			var encErr *EncodingError
			if !errors.As(err, &encErr) {
				t.Fatalf("Decode(%q) error = %v, want *EncodingError", tt.encoded, err)
			}
			if encErr.Reason != tt.wantReason {
				t.Errorf("Decode(%q) reason = %q, want %q", tt.encoded, encErr.Reason, tt.wantReason)
			}
			if !errors.Is(err, ErrEncoding) {
				t.Error("error does not wrap ErrEncoding")
			}
		})
	}
}

func TestDecode_LimitBoundary(t *testing.T) {
	t.Parallel()

	// "hello world" is exactly 11 bytes.
	if _, err := NewCodec(11).Decode(helloWorld); err != nil {
		t.Errorf("Decode() at the limit returned %v", err)
	}
	if _, err := NewCodec(10).Decode(helloWorld); err == nil {
		t.Error("Decode() one byte over the limit should fail")
	}
}

func TestDecode_StdlibProducer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := stdgzip.NewWriter(&buf)
	if _, err := zw.Write([]byte("échappé ✓")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := Codec{}.Decode(base64.StdEncoding.EncodeToString(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != "échappé ✓" {
		t.Errorf("Decode() = %q", got)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "args")

		encoded, err := Encode(s)
		if err != nil {
			rt.Fatalf("Encode() error = %v", err)
		}
		got, err := NewCodec(DefaultMaxDecodedBytes).Decode(encoded)
		if err != nil {
			rt.Fatalf("Decode(Encode(%q)) error = %v", s, err)
		}
		if got != s {
			rt.Fatalf("Decode(Encode(%q)) = %q", s, got)
		}
	})
}
