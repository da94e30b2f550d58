// SPDX-License-Identifier: EPL-2.0

package mpg123

import (
	"slices"

	"github.com/ik5/mp3bridge/dispatch"
	"github.com/ik5/mp3bridge/errs"
	"go.uber.org/zap"
)

// Handle is one decoder instance. The synchronous calls fail with a busy
// error while an async call is in flight.
type Handle struct {
	session *dispatch.Session[*decoder]
}

// New allocates a decoder. name selects the decoder, "" picks the default.
// On failure the handle is nil and the code says why.
func New(name string) (*Handle, int) {
	if !initialized.Load() {
		return nil, NotInitialized
	}
	if name == "" {
		name = DefaultDecoder
	}
	if !slices.Contains(decoders, name) {
		Logger().Debug("unknown decoder", zap.String("decoder", name))
		return nil, BadDecoder
	}

	h := &Handle{
		session: dispatch.NewSession("mpg123", newDecoder(name), func(d *decoder) error {
			d.close()
			return nil
		}),
	}
	return h, OK
}

// Delete releases the decoder. A second Delete fails with a closed error.
func (h *Handle) Delete() error {
	if h == nil {
		return errs.Invalid("mpg123_delete", "nil handle")
	}
	return h.session.Close()
}

func (h *Handle) Closed() bool { return h == nil || h.session.Closed() }

func (h *Handle) do(op string, fn func(*decoder)) error {
	if h == nil {
		return errs.Invalid(op, "nil handle")
	}
	return h.session.Do(op, fn)
}

// OpenFeed prepares the handle for Feed and Read. Calling it again starts
// a new stream.
func (h *Handle) OpenFeed() (int, error) {
	var code int
	err := h.do("mpg123_open_feed", func(d *decoder) { code = d.openFeed() })
	return code, err
}

// CurrentDecoder names the decoder the handle runs.
func (h *Handle) CurrentDecoder() (string, error) {
	var name string
	err := h.do("mpg123_current_decoder", func(d *decoder) { name = d.name })
	return name, err
}

// GetFormat reports the output format. The code is NeedMore until the
// first frame has been read.
func (h *Handle) GetFormat() (Format, int, error) {
	var (
		f    Format
		code int
	)
	err := h.do("mpg123_getformat", func(d *decoder) {
		switch {
		case !d.open:
			code = ERR
		case d.format.Rate == 0:
			code = NeedMore
		default:
			f, code = d.format, OK
		}
	})
	return f, code, err
}

// Stats counts decoded and skipped frames of the current stream.
type Stats struct {
	Frames  int
	Dropped int
	Skipped int64 // bytes that were neither frames nor tags
}

func (h *Handle) Stats() (Stats, error) {
	var s Stats
	err := h.do("mpg123_stats", func(d *decoder) {
		s = Stats{Frames: d.frames, Dropped: d.dropped, Skipped: d.scan.Skipped()}
	})
	return s, err
}
