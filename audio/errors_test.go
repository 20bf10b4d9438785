// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors_Distinct(t *testing.T) {
	t.Parallel()

	all := []error{
		ErrUnsupportedChannelLayout,
		ErrTooShort,
		ErrSilent,
		ErrMostlySilent,
		ErrResamplerInit,
		ErrResamplerProcess,
	}

	for i, a := range all {
		if a == nil || a.Error() == "" {
			t.Fatalf("error %d is nil or has an empty message", i)
		}
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("errors.Is(%q, %q) = true, want false", a, b)
			}
		}
	}
}

func TestErrors_Wrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("stage downmix: %w", ErrUnsupportedChannelLayout)
	if !errors.Is(wrapped, ErrUnsupportedChannelLayout) {
		t.Error("errors.Is() failed for wrapped ErrUnsupportedChannelLayout")
	}

	joined := errors.Join(ErrTooShort, errors.New("additional context"))
	if !errors.Is(joined, ErrTooShort) {
		t.Error("errors.Is() failed for joined ErrTooShort")
	}
}
