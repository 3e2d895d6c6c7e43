package canvas

import "fmt"

// Status is the result of a canvas operation. The zero value is
// StatusSuccess. Non-success values implement error and compare with
// errors.Is.
type Status int

// Status values.
const (
	StatusSuccess Status = iota
	StatusNoMemory
	StatusInvalidRestore
	StatusInvalidMatrix
	StatusInvalidPathData
	StatusInvalidSize
	StatusInvalidDash
	StatusInvalidFormat
	StatusInvalidIndex
	StatusSurfaceFinished
	StatusNullPointer
	StatusRasterFailed
)

var statusText = [...]string{
	StatusSuccess:         "no error has occurred",
	StatusNoMemory:        "out of memory",
	StatusInvalidRestore:  "restore without matching save",
	StatusInvalidMatrix:   "invalid matrix (not invertible)",
	StatusInvalidPathData: "invalid path data",
	StatusInvalidSize:     "invalid surface size",
	StatusInvalidDash:     "invalid dash pattern",
	StatusInvalidFormat:   "invalid surface format",
	StatusInvalidIndex:    "invalid index passed to getter",
	StatusSurfaceFinished: "the target surface has been finished",
	StatusNullPointer:     "nil object",
	StatusRasterFailed:    "rasterizer failed",
}

// Error implements error.
func (s Status) Error() string {
	if s >= 0 && int(s) < len(statusText) {
		return "canvas: " + statusText[s]
	}
	return fmt.Sprintf("canvas: status %d", int(s))
}

// Err returns nil for StatusSuccess and s otherwise.
func (s Status) Err() error {
	if s == StatusSuccess {
		return nil
	}
	return s
}

// latch records s in *dst unless a failure is already recorded.
func latch(dst *Status, s Status) {
	if *dst == StatusSuccess {
		*dst = s
	}
}
