// SPDX-License-Identifier: MPL-2.0
/*
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package lecroyutils

import "fmt"

// segmentTimes reconstructs the time axis of one segment:
//
//	time[i] = interval*i + offset + triggerTime
//
// triggerTime is the segment's entry from the per-segment trigger-time
// array, absolute from the first segment's trigger. It is taken verbatim;
// the spacing between segments is never derived from interval and sample
// count, because instruments insert dead time between segments that only
// the trigger-time array records. For single-segment traces triggerTime
// is 0.
func segmentTimes(points int, interval, offset, triggerTime float64) []float64 {
	times := make([]float64, points)
	for i := range times {
		times[i] = interval*float64(i) + offset + triggerTime
	}
	return times
}

// CheckTiming verifies that the time axis is non-decreasing within every
// segment and that segment start times strictly increase. It returns an
// error wrapping ErrInconsistentTiming on the first violation. Decode runs
// this check itself unless WithTolerantTiming was given.
func (w *Waveform) CheckTiming() error {
	for k, seg := range w.Segments {
		for i := 1; i < len(seg.Times); i++ {
			if seg.Times[i] < seg.Times[i-1] {
				return fmt.Errorf("%w: segment %d time decreases at sample %d (%g < %g)",
					ErrInconsistentTiming, k, i, seg.Times[i], seg.Times[i-1])
			}
		}
		if k == 0 || len(seg.Times) == 0 {
			continue
		}
		prev := w.Segments[k-1]
		if len(prev.Times) > 0 && seg.Times[0] <= prev.Times[0] {
			return fmt.Errorf("%w: segment %d starts at %g, not after segment %d at %g",
				ErrInconsistentTiming, k, seg.Times[0], k-1, prev.Times[0])
		}
	}
	return nil
}
