// SPDX-License-Identifier: EPL-2.0

package lame

import (
	"fmt"
	"io"
	"strconv"
)

// PrintConfig writes a short summary of the frozen configuration.
func (h *Handle) PrintConfig(w io.Writer) error {
	var werr error
	err := h.do("lame_print_config", func(e *encoder) { werr = e.printConfig(w) })
	if err != nil {
		return err
	}
	return werr
}

// PrintInternals writes every parameter with its current value.
func (h *Handle) PrintInternals(w io.Writer) error {
	var werr error
	err := h.do("lame_print_internals", func(e *encoder) { werr = e.printInternals(w) })
	if err != nil {
		return err
	}
	return werr
}

func (e *encoder) printConfig(w io.Writer) error {
	if !e.ready {
		_, err := fmt.Fprintf(w, "LAME %s\nparameters not frozen, call lame_init_params()\n", Version())
		return err
	}

	c := e.cfg
	if _, err := fmt.Fprintf(w, "LAME %s\n", Version()); err != nil {
		return err
	}
	if c.inRate != c.outRate {
		if _, err := fmt.Fprintf(w, "Resampling:  input %s kHz  output %s kHz\n", khz(c.inRate), khz(c.outRate)); err != nil {
			return err
		}
	}
	if c.downmix {
		if _, err := fmt.Fprintln(w, "Autoconverting from stereo to mono. Setting encoding to mono mode."); err != nil {
			return err
		}
	}

	mpegVersion := "2"
	if c.version == 1 {
		mpegVersion = "1"
	}
	_, err := fmt.Fprintf(w, "Encoding as %s kHz %s MPEG-%s Layer III (%.1fx) %3d kbps qval=%d\n",
		khz(c.outRate), c.mode, mpegVersion, e.gf.compressionRatio, c.bitrate, e.gf.quality)
	return err
}

func (e *encoder) printInternals(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "\nmisc:"); err != nil {
		return err
	}
	for _, a := range accessors {
		v := a.get(e)
		var s string
		switch a.Kind {
		case KindFloat:
			s = strconv.FormatFloat(v, 'g', -1, 64)
		case KindMode:
			s = MPEGMode(v).String()
		case KindVBR:
			s = VBRMode(v).String()
		default:
			s = strconv.FormatInt(int64(v), 10)
		}
		if _, err := fmt.Fprintf(w, "\t%-22s %s\n", a.Name, s); err != nil {
			return err
		}
	}
	return nil
}

func khz(rate int) string {
	return strconv.FormatFloat(float64(rate)/1000, 'f', -1, 64)
}
