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
	"math"
	"time"
)

// defaultTemplate is the descriptor template this package targets.
const defaultTemplate = "LECROY_2_3"

// Marshal encodes calibrated segment values into a waveform trace buffer
// that Decode accepts. Each inner slice is one segment; all segments must
// have the same length, and sequence-mode traces (more than one segment)
// require desc.TriggerTimes to carry one entry per segment.
//
// Values are converted back to raw samples with the inverse of the decode
// calibration, raw = (value + VerticalOffset) / VerticalGain, rounded and
// clamped to the range of desc.CommType. Descriptor length fields are
// derived from the data and need not be set by the caller.
func Marshal(desc Descriptor, segments [][]float64) ([]byte, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("lecroyutils: no segments to encode")
	}
	points := len(segments[0])
	for k, seg := range segments {
		if len(seg) != points {
			return nil, fmt.Errorf("lecroyutils: segment %d has %d samples, segment 0 has %d",
				k, len(seg), points)
		}
	}
	if desc.CommType != CommByte && desc.CommType != CommWord {
		return nil, fmt.Errorf("%w: comm type %d", ErrUnsupportedEncoding, int16(desc.CommType))
	}
	if desc.VerticalGain == 0 {
		return nil, fmt.Errorf("lecroyutils: vertical gain must be non-zero")
	}
	if len(segments) > 1 && len(desc.TriggerTimes) != len(segments) {
		return nil, fmt.Errorf("lecroyutils: %d segments but %d trigger-time entries",
			len(segments), len(desc.TriggerTimes))
	}

	order := desc.ByteOrder
	if order == nil {
		order = binary.LittleEndian
	}
	width := desc.CommType.SampleSize()
	count := len(segments) * points
	trigBytes := 0
	if len(segments) > 1 {
		trigBytes = len(segments) * segmentTimeSize
	}

	buf := make([]byte, descriptorSize+trigBytes+count*width)
	w := fieldWriter{buf: buf, order: order}

	w.str(0, 16, Marker)
	template := desc.TemplateName
	if template == "" {
		template = defaultTemplate
	}
	w.str(offTemplateName, 16, template)
	w.i16(offCommType, int16(desc.CommType))
	if order != binary.ByteOrder(binary.BigEndian) {
		w.i16(offCommOrder, 1)
	}
	w.i32(offDescriptorBytes, descriptorSize)
	w.i32(offUserTextBytes, 0)
	w.i32(offTrigTimeBytes, trigBytes)
	w.i32(offWaveArrayBytes, count*width)
	w.str(offInstrumentName, 16, desc.InstrumentName)
	w.i32(offInstrumentNumber, desc.InstrumentNumber)
	w.str(offTraceLabel, 16, desc.TraceLabel)
	w.i32(offWaveArrayCount, count)
	w.i32(offSubarrayCount, len(segments))
	w.f32(offVerticalGain, desc.VerticalGain)
	w.f32(offVerticalOffset, desc.VerticalOffset)
	rawMax, rawMin := fullScale(desc)
	w.f32(offMaxValue, rawMax)
	w.f32(offMinValue, rawMin)
	w.i16(offNominalBits, int16(desc.NominalBits))
	w.f32(offHorizInterval, desc.HorizInterval)
	w.f64(offHorizOffset, desc.HorizOffset)
	w.str(offVerticalUnit, 48, desc.VerticalUnit)
	w.str(offHorizontalUnit, 48, desc.HorizontalUnit)
	w.timestamp(offTriggerTime, desc.TriggerTime)
	w.i16(offRecordType, int16(desc.RecordType))
	w.i16(offProcessing, int16(desc.Processing))
	w.i16(offTimebase, int16(desc.Timebase))
	w.i16(offVerticalCoupling, int16(desc.VerticalCoupling))
	w.i16(offBandwidthLimit, int16(desc.BandwidthLimit))
	w.i16(offWaveSource, int16(desc.WaveSource))

	if trigBytes > 0 {
		for k, st := range desc.TriggerTimes {
			w.f64(descriptorSize+k*segmentTimeSize, st.TriggerTime)
			w.f64(descriptorSize+k*segmentTimeSize+8, st.TriggerOffset)
		}
	}

	dataStart := descriptorSize + trigBytes
	for k, seg := range segments {
		for i, v := range seg {
			raw := convertPhysicalToRaw(v, desc.VerticalGain, desc.VerticalOffset, desc.CommType)
			off := dataStart + (k*points+i)*width
			if width == 1 {
				buf[off] = byte(int8(raw))
			} else {
				order.PutUint16(buf[off:], uint16(int16(raw)))
			}
		}
	}

	return buf, nil
}

// fullScale returns the raw-value range recorded in the descriptor. When the
// caller left MaxValue and MinValue unset the full range of the sample width
// is used, so round-tripped waveforms are not reported as clipped.
func fullScale(desc Descriptor) (rawMax, rawMin float64) {
	if desc.MaxValue == 0 && desc.MinValue == 0 {
		if desc.CommType == CommByte {
			return math.MaxInt8, math.MinInt8
		}
		return math.MaxInt16, math.MinInt16
	}
	return (desc.MaxValue + desc.VerticalOffset) / desc.VerticalGain,
		(desc.MinValue + desc.VerticalOffset) / desc.VerticalGain
}

// convertPhysicalToRaw converts a calibrated value back to a raw sample,
// rounding to the nearest count and clamping to the sample width's range.
func convertPhysicalToRaw(v, gain, offset float64, ct CommType) int {
	raw := math.Round((v + offset) / gain)
	lo, hi := float64(math.MinInt16), float64(math.MaxInt16)
	if ct == CommByte {
		lo, hi = math.MinInt8, math.MaxInt8
	}
	return int(math.Min(math.Max(raw, lo), hi))
}

// fieldWriter writes descriptor fields at offsets relative to the marker.
type fieldWriter struct {
	buf   []byte
	order binary.ByteOrder
}

func (w fieldWriter) i16(off int, v int16) {
	w.order.PutUint16(w.buf[off:], uint16(v))
}

func (w fieldWriter) i32(off int, v int) {
	w.order.PutUint32(w.buf[off:], uint32(int32(v)))
}

func (w fieldWriter) f32(off int, v float64) {
	w.order.PutUint32(w.buf[off:], math.Float32bits(float32(v)))
}

func (w fieldWriter) f64(off int, v float64) {
	w.order.PutUint64(w.buf[off:], math.Float64bits(v))
}

// str writes a fixed-width null-padded text field, truncating if needed.
func (w fieldWriter) str(off, n int, s string) {
	copy(w.buf[off:off+n], s)
}

func (w fieldWriter) timestamp(off int, t time.Time) {
	if t.IsZero() {
		return
	}
	t = t.UTC()
	w.f64(off, float64(t.Second())+float64(t.Nanosecond())/1e9)
	w.buf[off+8] = byte(t.Minute())
	w.buf[off+9] = byte(t.Hour())
	w.buf[off+10] = byte(t.Day())
	w.buf[off+11] = byte(t.Month())
	w.i16(off+12, int16(t.Year()))
}
