// SPDX-License-Identifier: MPL-2.0
/*
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package lecroyutils

import "fmt"

// ByteSource abstracts a connected instrument as a provider of raw bytes.
// Implementations wrap whatever remote-control transport is in use; this
// package never dials or manages the connection itself.
type ByteSource interface {
	// FetchWaveformBytes returns one waveform transfer for the given source
	// (e.g. "C1"), in the same binary layout as a .trc file.
	FetchWaveformBytes(source string) ([]byte, error)

	// FetchScreenshot returns an image of the instrument display.
	FetchScreenshot() ([]byte, error)
}

// FetchWaveform fetches one waveform transfer from src and decodes it.
// Fetch failures are returned as-is; decode failures wrap this package's
// sentinel errors. No retries are attempted.
func FetchWaveform(src ByteSource, source string, opts ...DecodeOption) (*Waveform, error) {
	data, err := src.FetchWaveformBytes(source)
	if err != nil {
		return nil, fmt.Errorf("fetching waveform from %s: %w", source, err)
	}
	return Decode(data, opts...)
}
