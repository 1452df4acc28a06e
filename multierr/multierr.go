// Package multierr collects several independent failures into one error
package multierr

import "strings"

type Err []error

func (me Err) Error() string {
	var builder strings.Builder
	for i, err := range me {
		if i > 0 {
			builder.WriteString("; ")
		}
		builder.WriteString(err.Error())
	}
	return builder.String()
}

func (me Err) Len() int {
	return len(me)
}

// Unwrap lets errors.Is and errors.As see every collected error
func (me Err) Unwrap() []error {
	return me
}

// Add appends err, ignoring nil
func (me *Err) Add(err error) {
	if err == nil {
		return
	}
	*me = append(*me, err)
}

// OrNil is nil when nothing was added
func (me Err) OrNil() error {
	if len(me) == 0 {
		return nil
	}
	return me
}
