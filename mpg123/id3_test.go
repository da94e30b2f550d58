// SPDX-License-Identifier: EPL-2.0

package mpg123

import (
	"testing"

	"github.com/ik5/mp3bridge/audio"
	"github.com/ik5/mp3bridge/mpeg"
)

func TestID3ResultTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		res  ID3Result
		want audio.Tags
	}{
		{"none", ID3Result{}, audio.Tags{}},
		{
			"v1 only",
			ID3Result{V1: &TagV1{ID3v1: mpeg.ID3v1{Title: "Intro", Year: "2021", Track: 4, Genre: 17}}},
			audio.Tags{Title: "Intro", Year: "2021", Track: 4, Genre: "Rock"},
		},
		{
			"unset v1 genre",
			ID3Result{V1: &TagV1{ID3v1: mpeg.ID3v1{Title: "Intro", Genre: 255}}},
			audio.Tags{Title: "Intro"},
		},
		{
			"v2 wins",
			ID3Result{
				V1: &TagV1{ID3v1: mpeg.ID3v1{Title: "Intr", Artist: "Quintet", Track: 4, Genre: 17}},
				V2: &TagV2{Title: "Intro, full length", Genre: "Jazz"},
			},
			audio.Tags{Title: "Intro, full length", Artist: "Quintet", Track: 4, Genre: "Jazz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.res.Tags(); got != tt.want {
				t.Errorf("Tags() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
