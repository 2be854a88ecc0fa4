// SPDX-License-Identifier: MPL-2.0

package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeAuto},
		{in: "auto", want: ModeAuto},
		{in: "dialog", want: ModeDialog},
		{in: "console", want: ModeConsole},
		{in: "Console", wantErr: true},
		{in: "popup", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidMode) {
				t.Errorf("ParseMode(%q) error = %v, want ErrInvalidMode", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestConsole_Notify(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := NewConsole(&buf).Notify(TitleError, "No app found with name: missing"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Error", "No app found with name: missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("Notify() output %q does not contain %q", out, want)
		}
	}
	if strings.Count(out, "No app found") != 1 {
		t.Errorf("Notify() output %q repeats the message", out)
	}
}

func TestFunc_Notify(t *testing.T) {
	t.Parallel()

	var gotTitle, gotMessage string
	n := Func(func(title, message string) error {
		gotTitle, gotMessage = title, message
		return nil
	})
	if err := n.Notify("t", "m"); err != nil {
		t.Fatal(err)
	}
	if gotTitle != "t" || gotMessage != "m" {
		t.Errorf("Func.Notify passed (%q, %q)", gotTitle, gotMessage)
	}
}
