// SPDX-License-Identifier: EPL-2.0

package lame_test

import (
	"fmt"

	"github.com/ik5/mp3bridge/lame"
)

func ExampleErrorMessage() {
	for code := -1; code >= -4; code-- {
		fmt.Println(code, lame.ErrorMessage(code))
	}
	// Output:
	// -1 output buffer too small
	// -2 malloc() problems
	// -3 lame_init_params() not called
	// -4 psycho acoustic problems
}

func ExampleEstimateOutput() {
	fmt.Println(lame.EstimateOutput(1152), lame.FlushSize)
	// Output: 8640 7200
}

func ExampleHandle_Set() {
	h := lame.Init()
	defer h.Close()

	_, _ = h.SetInt("in_samplerate", 22050)
	code, _ := h.InitParams()
	rate, _ := h.GetInt("out_samplerate")
	fmt.Println(code, rate)
	// Output: 0 22050
}
