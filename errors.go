// SPDX-License-Identifier: MPL-2.0
/*
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package lecroyutils

import "errors"

var (
	// ErrMarkerNotFound indicates the buffer contains no WAVEDESC marker.
	ErrMarkerNotFound = errors.New("lecroyutils: WAVEDESC marker not found")

	// ErrTruncatedDescriptor indicates the buffer ends inside the
	// descriptor block.
	ErrTruncatedDescriptor = errors.New("lecroyutils: truncated descriptor")

	// ErrUnsupportedEncoding indicates a sample encoding other than 8-bit
	// or 16-bit signed integers.
	ErrUnsupportedEncoding = errors.New("lecroyutils: unsupported sample encoding")

	// ErrTruncatedPayload indicates the buffer ends before all declared
	// samples, or that the declared payload geometry is internally
	// inconsistent.
	ErrTruncatedPayload = errors.New("lecroyutils: truncated sample payload")

	// ErrInconsistentTiming indicates a reconstructed time axis that is not
	// monotonic, or sequence segments whose start times do not increase.
	// Decode demotes it to a survivable condition under WithTolerantTiming.
	ErrInconsistentTiming = errors.New("lecroyutils: inconsistent timing")
)
