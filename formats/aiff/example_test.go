// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/mp3bridge/formats/aiff"
)

func ExampleWriteAIFF16() {
	dir, err := os.MkdirTemp("", "aiff-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	f, err := os.Create(filepath.Join(dir, "tone.aif"))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer f.Close()

	if err := aiff.WriteAIFF16(f, 32000, 1, []int16{16384, -16384}); err != nil {
		fmt.Println(err)
		return
	}
	if _, err := f.Seek(0, 0); err != nil {
		fmt.Println(err)
		return
	}

	src, err := aiff.Decoder{}.Decode(f)
	if err != nil {
		fmt.Println(err)
		return
	}
	buf := make([]float32, 4)
	n, _ := src.ReadSamples(buf)
	fmt.Println(src.SampleRate(), src.Channels(), buf[:n])
	// Output: 32000 1 [0.5 -0.5]
}
