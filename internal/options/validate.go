// Package options provides shared helpers for validating functional
// option configuration.
package options

import "errors"

// ValidateSingleInputSource checks that exactly one input source flag in
// sources is set. It returns an error built from noSourceMsg when none
// are set and from multiSourceMsg when more than one is, so each caller
// keeps its own wording.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}
	switch {
	case count == 0:
		return errors.New(noSourceMsg)
	case count > 1:
		return errors.New(multiSourceMsg)
	}
	return nil
}
