// SPDX-License-Identifier: MPL-2.0
/*
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package lecroyutils

// DecodeOption configures a Decode call.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	tolerantTiming bool
	sparse         int
}

func defaultDecodeOptions() *decodeOptions {
	return &decodeOptions{}
}

// WithTolerantTiming makes Decode return the waveform even when the
// reconstructed time axis fails the consistency check. Callers can still
// run (*Waveform).CheckTiming to inspect the condition.
func WithTolerantTiming() DecodeOption {
	return func(o *decodeOptions) {
		o.tolerantTiming = true
	}
}

// WithSparse keeps only n evenly strided samples per segment instead of the
// full record. n must be at least 1 and at most the per-segment sample
// count, otherwise Decode fails.
func WithSparse(n int) DecodeOption {
	return func(o *decodeOptions) {
		o.sparse = n
	}
}
