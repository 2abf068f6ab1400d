package geocentric

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these and can be tested with errors.Is.
var (
	ErrTypeMismatch               = errors.New("type mismatch")
	ErrDegenerateGeometry         = errors.New("degenerate geometry")
	ErrNumericSingularity         = errors.New("numeric singularity")
	ErrIncompatibleReferenceFrame = errors.New("incompatible reference frame")
)

// TypeError reports an argument of the wrong shape, such as a non-finite
// coordinate, a missing datum or an ellipsoidal/spherical datum conflict.
type TypeError struct {
	Arg string
	Txt string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Arg, e.Txt)
}

func (e *TypeError) Unwrap() error { return ErrTypeMismatch }

// ResectionError reports a resection whose input configuration is
// degenerate: coincident, colinear or concyclic points, negative angles or
// angles that do not add up.
type ResectionError struct {
	Method string
	Reason string
	Values map[string]float64
}

func (e *ResectionError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Method)
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	if len(e.Values) > 0 {
		keys := make([]string, 0, len(e.Values))
		for k := range e.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%g", k, e.Values[k])
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *ResectionError) Unwrap() error { return ErrDegenerateGeometry }

// SingularityError reports a numeric collapse, e.g. an n-vector computed at
// or very near the geocentric origin. Stage names the intermediate that
// failed and Value holds it.
type SingularityError struct {
	Op    string
	Stage string
	Value float64
}

func (e *SingularityError) Error() string {
	return fmt.Sprintf("%s: %s near zero (EPS0 %g)", e.Op, e.Stage, e.Value)
}

func (e *SingularityError) Unwrap() error { return ErrNumericSingularity }

// RefFrameError reports a reference frame conversion with no known path.
type RefFrameError struct {
	From, To string
	Epoch    float64
}

func (e *RefFrameError) Error() string {
	return fmt.Sprintf("no conversion from %s to %s at epoch %g", e.From, e.To, e.Epoch)
}

func (e *RefFrameError) Unwrap() error { return ErrIncompatibleReferenceFrame }
