// SPDX-License-Identifier: EPL-2.0

package vorbis_test

import (
	"fmt"

	"github.com/ik5/mp3bridge/formats/vorbis"
)

func ExampleParseComments() {
	tags := vorbis.ParseComments([]string{"TITLE=Intro", "TRACKNUMBER=1", "DATE=2021-06-30"})
	fmt.Println(tags.Title, tags.Track, tags.Year)
	// Output: Intro 1 2021
}
