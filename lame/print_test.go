// SPDX-License-Identifier: EPL-2.0

package lame

import (
	"strings"
	"testing"
)

func TestPrintConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params map[string]float64
		want   []string
	}{
		{
			name:   "defaults",
			params: nil,
			want:   []string{"LAME 3.100", "Encoding as 44.1 kHz j-stereo MPEG-1 Layer III (11.0x) 128 kbps qval=3"},
		},
		{
			name:   "resampled",
			params: map[string]float64{"in_samplerate": 8000, "brate": 64},
			want:   []string{"Resampling:  input 8 kHz  output 16 kHz", "MPEG-2 Layer III", " 64 kbps"},
		},
		{
			name:   "downmixed",
			params: map[string]float64{"mode": float64(Mono)},
			want:   []string{"Autoconverting from stereo to mono", "single-ch MPEG-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, _ := newFake(t, 1, tt.params)

			var sb strings.Builder
			if err := h.PrintConfig(&sb); err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(sb.String(), w) {
					t.Errorf("output %q lacks %q", sb.String(), w)
				}
			}
		})
	}
}

func TestPrintConfigNotFrozen(t *testing.T) {
	t.Parallel()

	h := InitWith(&fakeBackend{})
	defer h.Close()

	var sb strings.Builder
	if err := h.PrintConfig(&sb); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "parameters not frozen") {
		t.Errorf("output = %q", sb.String())
	}
}

func TestPrintInternals(t *testing.T) {
	t.Parallel()

	h, _ := newFake(t, 1, nil)

	var sb strings.Builder
	if err := h.PrintInternals(&sb); err != nil {
		t.Fatal(err)
	}

	out := sb.String()
	for _, name := range ParamNames() {
		if !strings.Contains(out, "\t"+name+" ") {
			t.Errorf("%s missing from internals", name)
		}
	}
	if !strings.Contains(out, "j-stereo") {
		t.Error("mode is not printed by name")
	}
}
