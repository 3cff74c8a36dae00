package dither

import (
	"fmt"
	"strings"
)

// Method selects the dithering strategy.
type Method int

// The noise based methods quantize every pixel independently and run in
// parallel. The remaining methods diffuse the quantization error and run
// sequentially.
const (
	None Method = iota
	R2
	PCG
	FloydSteinberg
	JarvisJudiceNinke
	Stucki
	Atkinson
	Burkes
	Sierra
	TwoRowSierra
	SierraLite
)

var methodNames = [...]string{
	None:              "none",
	R2:                "r2",
	PCG:               "pcg",
	FloydSteinberg:    "floyd-steinberg",
	JarvisJudiceNinke: "jarvis-judice-ninke",
	Stucki:            "stucki",
	Atkinson:          "atkinson",
	Burkes:            "burkes",
	Sierra:            "sierra",
	TwoRowSierra:      "two-row-sierra",
	SierraLite:        "sierra-lite",
}

var methodKernels = [...]Kernel{
	FloydSteinberg:    FloydSteinbergKernel,
	JarvisJudiceNinke: JarvisJudiceNinkeKernel,
	Stucki:            StuckiKernel,
	Atkinson:          AtkinsonKernel,
	Burkes:            BurkesKernel,
	Sierra:            SierraKernel,
	TwoRowSierra:      TwoRowSierraKernel,
	SierraLite:        SierraLiteKernel,
}

// Methods returns every supported method in declaration order.
func Methods() []Method {
	m := make([]Method, len(methodNames))
	for i := range m {
		m[i] = Method(i)
	}
	return m
}

// MethodNames returns the names accepted by ParseMethod.
func MethodNames() []string {
	return append([]string(nil), methodNames[:]...)
}

func (m Method) valid() bool {
	return m >= None && int(m) < len(methodNames)
}

func (m Method) String() string {
	if !m.valid() {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Kernel returns the error diffusion kernel for m. The boolean is false for
// the noise based methods.
func (m Method) Kernel() (Kernel, bool) {
	if m < FloydSteinberg || !m.valid() {
		return nil, false
	}
	return methodKernels[m], true
}

// ParseMethod returns the Method with the given name. Matching ignores case
// and treats underscores as hyphens.
func ParseMethod(s string) (Method, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, name := range methodNames {
		if name == s {
			return Method(i), nil
		}
	}
	return None, fmt.Errorf("%w: unknown method %q", ErrConfiguration, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: unknown method %d", ErrConfiguration, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
