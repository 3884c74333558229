// SPDX-License-Identifier: MPL-2.0
/*
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package lecroyutils

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Marker is the byte sequence that begins the binary descriptor block.
// Instrument transfers prefix it with a short textual response header
// (e.g. "C1:WF ALL,#9000000346"); Decode anchors on the first occurrence.
const Marker = "WAVEDESC"

// descriptorSize is the fixed size of the LECROY_2_3 descriptor template.
const descriptorSize = 346

// CommType encodes the width of the raw samples in the wave array.
type CommType int16

const (
	CommByte CommType = 0 // 8-bit signed samples
	CommWord CommType = 1 // 16-bit signed samples
)

// SampleSize returns the size of one raw sample in bytes.
func (c CommType) SampleSize() int {
	if c == CommByte {
		return 1
	}
	return 2
}

func (c CommType) String() string {
	switch c {
	case CommByte:
		return "byte"
	case CommWord:
		return "word"
	}
	return fmt.Sprintf("unknown(%d)", int16(c))
}

// RecordType identifies the acquisition mode the trace was captured in.
type RecordType int16

const (
	RecordSingleSweep RecordType = iota
	RecordInterleaved
	RecordHistogram
	RecordGraph
	RecordFilterCoefficient
	RecordComplex
	RecordExtrema
	RecordSequenceObsolete
	RecordCenteredRIS
	RecordPeakDetect
)

var recordTypeNames = []string{
	"single_sweep", "interleaved", "histogram", "graph",
	"filter_coefficient", "complex", "extrema", "sequence_obsolete",
	"centered_RIS", "peak_detect",
}

func (r RecordType) String() string { return lookupLabel(recordTypeNames, int16(r)) }

// Processing identifies any on-instrument processing applied to the trace.
type Processing int16

const (
	ProcessingNone Processing = iota
	ProcessingFIRFilter
	ProcessingInterpolated
	ProcessingSparsed
	ProcessingAutoscaled
	ProcessingNoResults
	ProcessingRolling
	ProcessingCumulative
)

var processingNames = []string{
	"No Processing", "FIR Filter", "interpolated", "sparsed",
	"autoscaled", "no_results", "rolling", "cumulative",
}

func (p Processing) String() string { return lookupLabel(processingNames, int16(p)) }

// Timebase is the instrument's time/division setting code.
type Timebase int16

// TimebaseExternal marks an externally clocked acquisition.
const TimebaseExternal Timebase = 100

var (
	timebaseValues = []int{1, 2, 5, 10, 20, 50, 100, 200, 500}
	timebaseUnits  = "pnum k"
)

// String renders the code as a time/division label, e.g. "2 ns/div".
func (t Timebase) String() string {
	if t == TimebaseExternal {
		return "EXTERNAL"
	}
	if t < 0 || int(t) >= len(timebaseValues)*len(timebaseUnits) {
		return fmt.Sprintf("unknown(%d)", int16(t))
	}
	unit := string(timebaseUnits[int(t)/9])
	if unit == " " {
		unit = ""
	}
	return fmt.Sprintf("%d %ss/div", timebaseValues[int(t)%9], unit)
}

// VerticalCoupling is the input coupling of the source channel.
type VerticalCoupling int16

const (
	CouplingDC50 VerticalCoupling = iota
	CouplingGround
	CouplingDC1M
	CouplingGroundAlt
	CouplingAC1M
)

var couplingNames = []string{"DC50", "GND", "DC1M", "GND", "AC1M"}

func (v VerticalCoupling) String() string { return lookupLabel(couplingNames, int16(v)) }

// BandwidthLimit reports whether the channel bandwidth limiter was engaged.
type BandwidthLimit int16

const (
	BandwidthOff BandwidthLimit = iota
	BandwidthOn
)

var bandwidthNames = []string{"off", "on"}

func (b BandwidthLimit) String() string { return lookupLabel(bandwidthNames, int16(b)) }

// WaveSource identifies the channel the trace was captured from.
type WaveSource int16

const (
	SourceC1 WaveSource = iota
	SourceC2
	SourceC3
	SourceC4
	SourceUnknown
)

var waveSourceNames = []string{"C1", "C2", "C3", "C4", "ND"}

func (w WaveSource) String() string { return lookupLabel(waveSourceNames, int16(w)) }

func lookupLabel(names []string, code int16) string {
	if code < 0 || int(code) >= len(names) {
		return fmt.Sprintf("unknown(%d)", code)
	}
	return names[code]
}

// SegmentTime is one entry of the per-segment trigger-time array present in
// sequence-mode files. TriggerTime is the segment's trigger instant in
// seconds, absolute from the first segment's trigger; TriggerOffset is the
// sub-sample offset between that trigger and the segment's first sample.
type SegmentTime struct {
	TriggerTime   float64
	TriggerOffset float64
}

// Descriptor is the decoded fixed-layout WAVEDESC header.
type Descriptor struct {
	TemplateName     string           // Descriptor template (usually "LECROY_2_3")
	CommType         CommType         // Raw sample width
	ByteOrder        binary.ByteOrder // Order of all multi-byte fields and samples
	DescriptorBytes  int              // Declared descriptor block length
	UserTextBytes    int              // Declared user-text block length
	TrigTimeBytes    int              // Declared trigger-time array length
	WaveArrayBytes   int              // Declared sample payload length
	InstrumentName   string           // Instrument model identification
	InstrumentNumber int              // Instrument serial number
	TraceLabel       string           // User-assigned trace label
	WaveArrayCount   int              // Total sample count across all segments
	SubarrayCount    int              // Number of segments (1 unless sequence mode)
	VerticalGain     float64          // Vertical units per ADC count
	VerticalOffset   float64          // Subtracted after gain is applied
	MaxValue         float64          // Full-scale top in vertical units
	MinValue         float64          // Full-scale bottom in vertical units
	NominalBits      int              // ADC resolution of the acquisition
	HorizInterval    float64          // Time between samples in seconds
	HorizOffset      float64          // Trigger-relative time of the first sample
	VerticalUnit     string           // Vertical unit label, e.g. "V"
	HorizontalUnit   string           // Horizontal unit label, e.g. "S"
	TriggerTime      time.Time        // Timestamp of the acquisition trigger
	RecordType       RecordType
	Processing       Processing
	Timebase         Timebase
	VerticalCoupling VerticalCoupling
	BandwidthLimit   BandwidthLimit
	WaveSource       WaveSource

	// TriggerTimes holds the per-segment trigger-time array. It is nil for
	// single-segment traces and has SubarrayCount entries in sequence mode;
	// callers must handle both cases.
	TriggerTimes []SegmentTime
}

// Sequence reports whether the trace was captured in sequence mode.
func (d *Descriptor) Sequence() bool { return d.SubarrayCount > 1 }

// PointsPerSegment returns the number of samples in each segment.
func (d *Descriptor) PointsPerSegment() int {
	if d.SubarrayCount > 1 {
		return d.WaveArrayCount / d.SubarrayCount
	}
	return d.WaveArrayCount
}

// SampleRate returns the acquisition sample rate in Hz.
func (d *Descriptor) SampleRate() float64 { return 1 / d.HorizInterval }

// Segment is one acquisition of a sequence-mode trace. Its Times and Values
// slices alias the parent Waveform's storage, never the decoded input buffer.
type Segment struct {
	Times         []float64
	Values        []float64
	TriggerTime   float64 // Seconds from the first segment's trigger
	TriggerOffset float64
}

// Waveform is the calibrated result of decoding one trace buffer. Times are
// in units of Desc.HorizontalUnit and Values in units of Desc.VerticalUnit.
// A Waveform owns its sample storage exclusively and remains valid after the
// input buffer has been freed or reused.
type Waveform struct {
	Desc Descriptor

	// Times and Values hold the concatenated samples of all segments in
	// acquisition order.
	Times  []float64
	Values []float64

	// Segments provides per-segment views of Times and Values. It always has
	// at least one entry.
	Segments []Segment

	// Clipped reports whether any calibrated value exceeds the full-scale
	// range declared by the descriptor.
	Clipped bool
}

// SegmentCount returns the number of segments in the waveform.
func (w *Waveform) SegmentCount() int { return len(w.Segments) }
