// SPDX-License-Identifier: MPL-2.0
/*
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Package lecroyutils decodes binary waveform trace (.trc) buffers produced
// by LeCroy oscilloscopes, as saved to files or returned by a remote
// waveform query.
//
// A trace buffer consists of a fixed-layout "WAVEDESC" descriptor carrying
// instrument metadata and scaling coefficients, an optional per-segment
// trigger-time array, and the raw sample payload. Decode reconstructs
// calibrated, unit-bearing time and value arrays from it:
//
//	wf, err := lecroyutils.Decode(data)
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Println(wf.Times[0], wf.Values[0], wf.Desc.VerticalUnit)
//
// # Sequence mode
//
// Traces captured in sequence mode hold several acquisition segments in one
// buffer. Decode exposes both the concatenated record (Waveform.Times,
// Waveform.Values) and per-segment views (Waveform.Segments). Each
// segment's time origin is shifted by its entry in the trace's
// trigger-time array, taken as absolute from the first segment's trigger;
// the gaps between segments are real dead time recorded by the instrument
// and are never inferred from the sample interval.
//
// # Error handling
//
// All decode failures wrap one of the sentinel errors ErrMarkerNotFound,
// ErrTruncatedDescriptor, ErrUnsupportedEncoding, ErrTruncatedPayload and
// ErrInconsistentTiming, so callers can classify them with errors.Is.
// ErrInconsistentTiming can be demoted with WithTolerantTiming, since some
// malformed-but-usable traces exhibit it.
//
// # Instrument transfers
//
// Live transfers use the same layout as files. The ByteSource interface
// abstracts the remote-control transport, and FetchWaveform decodes
// straight from it; connection management belongs to the transport, not to
// this package.
package lecroyutils
