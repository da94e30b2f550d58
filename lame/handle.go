// SPDX-License-Identifier: EPL-2.0

package lame

import (
	"math"

	"github.com/ik5/mp3bridge/dispatch"
	"github.com/ik5/mp3bridge/errs"
)

const version = "3.100"

// Version is the encoder library version string.
func Version() string {
	return version + " (shine-mp3)"
}

// EstimateOutput is the output size that is always enough for one encode
// call of nsamples frames.
func EstimateOutput(nsamples int) int {
	return int(1.25*float64(nsamples)) + 7200
}

// FlushSize is enough room for a flush.
const FlushSize = 7200

// Handle is one encoder instance. Accessors and tag calls are synchronous
// and fail with a busy error while an encode call is in flight.
type Handle struct {
	session *dispatch.Session[*encoder]
}

// Init allocates an encoder on the default backend. Automatic tag writing
// is off; fetch tags with GetID3v1Tag and GetID3v2Tag.
func Init() *Handle {
	return InitWith(Shine{})
}

// InitWith allocates an encoder on b. It returns nil for a nil backend.
func InitWith(b Backend) *Handle {
	if b == nil {
		return nil
	}
	return &Handle{
		session: dispatch.NewSession("lame", newEncoder(b), func(e *encoder) error {
			e.close()
			return nil
		}),
	}
}

// Close releases the encoder. A second Close fails with a closed error.
func (h *Handle) Close() error {
	if h == nil {
		return errs.Invalid("lame_close", "nil handle")
	}
	return h.session.Close()
}

func (h *Handle) Closed() bool { return h == nil || h.session.Closed() }

// do runs fn with the encoder held.
func (h *Handle) do(op string, fn func(*encoder)) error {
	if h == nil {
		return errs.Invalid(op, "nil handle")
	}
	return h.session.Do(op, fn)
}

// InitParams freezes the parameters. The code is 0 on success and -1 when
// the configuration cannot be encoded.
func (h *Handle) InitParams() (int, error) {
	var code int
	err := h.do("lame_init_params", func(e *encoder) { code = e.initParams() })
	return code, err
}

// Get reads a parameter by name.
func (h *Handle) Get(name string) (float64, error) {
	op := "lame_get_" + name
	a, err := lookup(op, name)
	if err != nil {
		return 0, err
	}

	var v float64
	err = h.do(op, func(e *encoder) { v = a.get(e) })
	return v, err
}

// Set writes a parameter by name. The error reports misuse of the binding;
// the code is what the setter returned, -1 for a rejected value.
func (h *Handle) Set(name string, v float64) (int, error) {
	op := "lame_set_" + name
	a, err := lookup(op, name)
	if err != nil {
		return 0, err
	}
	if a.ReadOnly {
		return 0, errs.New(errs.PhaseValidate, errs.KindUnsupported).Op(op).Cause(ErrReadOnly).Build()
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errs.New(errs.PhaseValidate, errs.KindInvalidArgument).Op(op).Cause(ErrNotFinite).Build()
	}
	if a.Kind != KindFloat && v != math.Trunc(v) {
		return 0, errs.New(errs.PhaseValidate, errs.KindInvalidArgument).
			Op(op).
			Detail("got %v", v).
			Cause(ErrNotInteger).
			Build()
	}

	var code int
	err = h.do(op, func(e *encoder) { code = a.set(e, v) })
	return code, err
}

func (h *Handle) GetInt(name string) (int, error) {
	v, err := h.Get(name)
	return int(v), err
}

func (h *Handle) SetInt(name string, v int) (int, error) {
	return h.Set(name, float64(v))
}

func lookup(op, name string) (*accessor, error) {
	a, ok := accessorIndex[name]
	if !ok {
		return nil, errs.New(errs.PhaseValidate, errs.KindNotFound).
			Op(op).
			Detail("no parameter %q", name).
			Cause(ErrUnknownParam).
			Build()
	}
	return a, nil
}
