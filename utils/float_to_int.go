// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 clamps x to [-1,1] and scales it by 32767, so both signs
// saturate symmetrically.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int16(x * 32767.0)
}

// Int16ToFloat32 maps a short sample into [-1,1).
func Int16ToFloat32(x int16) float32 {
	return float32(x) / 32768.0
}

// Float64ToFloat32 narrows a double sample, clamping it to [-1,1].
func Float64ToFloat32(x float64) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return float32(x)
}
