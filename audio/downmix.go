// SPDX-License-Identifier: EPL-2.0

package audio

// Downmix averages each interleaved frame of src into one mono sample and
// appends the result to dst.
func Downmix(dst, src []float32, channels int) ([]float32, error) {
	if channels <= 0 {
		return dst, ErrInvalidLayout
	}
	if len(src)%channels != 0 {
		return dst, ErrInvalidDstSize
	}
	if channels == 1 {
		return append(dst, src...), nil
	}

	frames := len(src) / channels
	switch channels {
	case 2:
		for f := range frames {
			dst = append(dst, (src[2*f]+src[2*f+1])*0.5)
		}
	default:
		inv := 1 / float32(channels)
		for f := range frames {
			var sum float32
			for _, s := range src[f*channels : (f+1)*channels] {
				sum += s
			}
			dst = append(dst, sum*inv)
		}
	}

	return dst, nil
}

// Upmix duplicates each mono sample into channels copies and appends them
// to dst.
func Upmix(dst, src []float32, channels int) ([]float32, error) {
	if channels <= 0 {
		return dst, ErrInvalidLayout
	}
	for _, s := range src {
		for range channels {
			dst = append(dst, s)
		}
	}
	return dst, nil
}
