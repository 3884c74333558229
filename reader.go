// SPDX-License-Identifier: MPL-2.0
/*
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package lecroyutils

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Field offsets relative to the WAVEDESC marker, per the LECROY_2_3
// descriptor template.
const (
	offTemplateName     = 16
	offCommType         = 32
	offCommOrder        = 34
	offDescriptorBytes  = 36
	offUserTextBytes    = 40
	offTrigTimeBytes    = 48
	offWaveArrayBytes   = 60
	offInstrumentName   = 76
	offInstrumentNumber = 92
	offTraceLabel       = 96
	offWaveArrayCount   = 116
	offSubarrayCount    = 144
	offVerticalGain     = 156
	offVerticalOffset   = 160
	offMaxValue         = 164
	offMinValue         = 168
	offNominalBits      = 172
	offHorizInterval    = 176
	offHorizOffset      = 180
	offVerticalUnit     = 196
	offHorizontalUnit   = 244
	offTriggerTime      = 296
	offRecordType       = 316
	offProcessing       = 318
	offTimebase         = 324
	offVerticalCoupling = 326
	offBandwidthLimit   = 334
	offWaveSource       = 344
)

// segmentTimeSize is the size of one trigger-time array entry (two f64).
const segmentTimeSize = 16

// Decode parses one waveform trace buffer, as read from a .trc file or
// returned by an instrument waveform query, into a calibrated Waveform.
//
// The buffer is only read; the returned Waveform shares no storage with it.
// All failures wrap one of the package's sentinel errors.
func Decode(data []byte, opts ...DecodeOption) (*Waveform, error) {
	o := defaultDecodeOptions()
	for _, opt := range opts {
		opt(o)
	}

	pos := bytes.Index(data, []byte(Marker))
	if pos < 0 {
		return nil, ErrMarkerNotFound
	}
	if len(data)-pos < descriptorSize {
		return nil, fmt.Errorf("%w: %d bytes after marker, template needs %d",
			ErrTruncatedDescriptor, len(data)-pos, descriptorSize)
	}

	desc, err := decodeDescriptor(data, pos)
	if err != nil {
		return nil, err
	}

	width := desc.CommType.SampleSize()
	count := desc.WaveArrayCount
	segments := desc.SubarrayCount
	if count < 0 || desc.UserTextBytes < 0 || desc.TrigTimeBytes < 0 {
		return nil, fmt.Errorf("%w: negative length field in descriptor", ErrTruncatedPayload)
	}
	if segments > 1 && count%segments != 0 {
		return nil, fmt.Errorf("%w: wave array count %d not divisible by %d segments",
			ErrTruncatedPayload, count, segments)
	}
	if declared := desc.WaveArrayBytes; declared != count*width {
		return nil, fmt.Errorf("%w: declared wave array length %d, %d samples of %d bytes need %d",
			ErrTruncatedPayload, declared, count, width, count*width)
	}

	// The user text sits between the descriptor and the trigger-time array;
	// it carries no decoding state and is skipped.
	trigStart := pos + desc.DescriptorBytes + desc.UserTextBytes
	if desc.Sequence() {
		if desc.TrigTimeBytes < segments*segmentTimeSize {
			return nil, fmt.Errorf("%w: trigger-time array of %d bytes cannot hold %d segments",
				ErrTruncatedPayload, desc.TrigTimeBytes, segments)
		}
		if trigStart+desc.TrigTimeBytes > len(data) {
			return nil, fmt.Errorf("%w: buffer ends inside trigger-time array", ErrTruncatedPayload)
		}
		desc.TriggerTimes = decodeSegmentTimes(data[trigStart:], segments, desc.ByteOrder)
	}

	dataStart := trigStart + desc.TrigTimeBytes
	if dataStart+count*width > len(data) {
		return nil, fmt.Errorf("%w: buffer holds %d of %d sample bytes",
			ErrTruncatedPayload, max(len(data)-dataStart, 0), count*width)
	}

	points := desc.PointsPerSegment()
	if o.sparse != 0 && (o.sparse < 1 || o.sparse > points) {
		return nil, fmt.Errorf("lecroyutils: sparse count %d out of range [1, %d]", o.sparse, points)
	}

	wf := assemble(data[dataStart:dataStart+count*width], desc, o.sparse)

	if !o.tolerantTiming {
		if err := wf.CheckTiming(); err != nil {
			return nil, err
		}
	}
	return wf, nil
}

// decodeDescriptor reads every fixed-offset field of the WAVEDESC block.
// The caller guarantees at least descriptorSize bytes after pos.
func decodeDescriptor(data []byte, pos int) (Descriptor, error) {
	var desc Descriptor

	// The byte-order flag must be interpreted before any other multi-byte
	// field. Its legal values are 0 (big endian) and 1 (little endian), so
	// the low byte alone decides.
	r := fieldReader{buf: data[pos:], order: binary.LittleEndian}
	if r.i16(offCommOrder) == 0 {
		r.order = binary.BigEndian
	}
	desc.ByteOrder = r.order

	commType := CommType(r.i16(offCommType))
	if commType != CommByte && commType != CommWord {
		return desc, fmt.Errorf("%w: comm type %d", ErrUnsupportedEncoding, int16(commType))
	}
	desc.CommType = commType

	desc.TemplateName = r.str(offTemplateName, 16)
	desc.DescriptorBytes = r.i32(offDescriptorBytes)
	desc.UserTextBytes = r.i32(offUserTextBytes)
	desc.TrigTimeBytes = r.i32(offTrigTimeBytes)
	desc.WaveArrayBytes = r.i32(offWaveArrayBytes)
	desc.InstrumentName = r.str(offInstrumentName, 16)
	desc.InstrumentNumber = r.i32(offInstrumentNumber)
	desc.TraceLabel = r.str(offTraceLabel, 16)
	desc.WaveArrayCount = r.i32(offWaveArrayCount)
	desc.SubarrayCount = r.i32(offSubarrayCount)
	desc.VerticalGain = r.f32(offVerticalGain)
	desc.VerticalOffset = r.f32(offVerticalOffset)
	desc.MaxValue = desc.VerticalGain*r.f32(offMaxValue) - desc.VerticalOffset
	desc.MinValue = desc.VerticalGain*r.f32(offMinValue) - desc.VerticalOffset
	desc.NominalBits = int(r.i16(offNominalBits))
	desc.HorizInterval = r.f32(offHorizInterval)
	desc.HorizOffset = r.f64(offHorizOffset)
	desc.VerticalUnit = r.str(offVerticalUnit, 48)
	desc.HorizontalUnit = r.str(offHorizontalUnit, 48)
	desc.TriggerTime = r.timestamp(offTriggerTime)
	desc.RecordType = RecordType(r.i16(offRecordType))
	desc.Processing = Processing(r.i16(offProcessing))
	desc.Timebase = Timebase(r.i16(offTimebase))
	desc.VerticalCoupling = VerticalCoupling(r.i16(offVerticalCoupling))
	desc.BandwidthLimit = BandwidthLimit(r.i16(offBandwidthLimit))
	desc.WaveSource = WaveSource(r.i16(offWaveSource))

	if desc.SubarrayCount < 1 {
		desc.SubarrayCount = 1
	}
	if desc.DescriptorBytes < descriptorSize {
		return desc, fmt.Errorf("%w: declared descriptor length %d below template size %d",
			ErrTruncatedDescriptor, desc.DescriptorBytes, descriptorSize)
	}
	if desc.DescriptorBytes > len(data)-pos {
		return desc, fmt.Errorf("%w: declared descriptor length %d, %d bytes remain",
			ErrTruncatedDescriptor, desc.DescriptorBytes, len(data)-pos)
	}
	return desc, nil
}

// decodeSegmentTimes reads the interleaved (trigger time, trigger offset)
// pairs that precede the sample payload in sequence mode.
func decodeSegmentTimes(b []byte, segments int, order binary.ByteOrder) []SegmentTime {
	times := make([]SegmentTime, segments)
	for k := range times {
		times[k].TriggerTime = math.Float64frombits(order.Uint64(b[k*segmentTimeSize:]))
		times[k].TriggerOffset = math.Float64frombits(order.Uint64(b[k*segmentTimeSize+8:]))
	}
	return times
}

// assemble calibrates the raw payload and reconstructs per-segment time
// axes. payload holds exactly the declared sample bytes, segment-major.
func assemble(payload []byte, desc Descriptor, sparse int) *Waveform {
	width := desc.CommType.SampleSize()
	points := desc.PointsPerSegment()
	kept := points
	if sparse > 0 {
		kept = sparse
	}
	stride := 1
	if sparse > 0 {
		stride = points / sparse
	}

	wf := &Waveform{
		Desc:     desc,
		Times:    make([]float64, 0, kept*desc.SubarrayCount),
		Values:   make([]float64, 0, kept*desc.SubarrayCount),
		Segments: make([]Segment, desc.SubarrayCount),
	}

	clipped := false
	for k := 0; k < desc.SubarrayCount; k++ {
		seg := &wf.Segments[k]
		if desc.TriggerTimes != nil {
			seg.TriggerTime = desc.TriggerTimes[k].TriggerTime
			seg.TriggerOffset = desc.TriggerTimes[k].TriggerOffset
		}

		times := segmentTimes(points, desc.HorizInterval, desc.HorizOffset, seg.TriggerTime)
		start := len(wf.Times)
		for i := 0; i < kept; i++ {
			idx := k*points + i*stride
			raw := rawSample(payload, idx*width, width, desc.ByteOrder)
			v := desc.VerticalGain*raw - desc.VerticalOffset
			if v > desc.MaxValue || v < desc.MinValue {
				clipped = true
			}
			wf.Times = append(wf.Times, times[i*stride])
			wf.Values = append(wf.Values, v)
		}
		seg.Times = wf.Times[start:len(wf.Times):len(wf.Times)]
		seg.Values = wf.Values[start:len(wf.Values):len(wf.Values)]
	}
	wf.Clipped = clipped
	return wf
}

// rawSample reads one signed sample of the given width at off.
func rawSample(payload []byte, off, width int, order binary.ByteOrder) float64 {
	if width == 1 {
		return float64(int8(payload[off]))
	}
	return float64(int16(order.Uint16(payload[off:])))
}

// fieldReader reads descriptor fields at offsets relative to the marker.
type fieldReader struct {
	buf   []byte
	order binary.ByteOrder
}

func (r fieldReader) u8(off int) byte { return r.buf[off] }

func (r fieldReader) i16(off int) int16 {
	return int16(r.order.Uint16(r.buf[off:]))
}

func (r fieldReader) i32(off int) int {
	return int(int32(r.order.Uint32(r.buf[off:])))
}

func (r fieldReader) f32(off int) float64 {
	return float64(math.Float32frombits(r.order.Uint32(r.buf[off:])))
}

func (r fieldReader) f64(off int) float64 {
	return math.Float64frombits(r.order.Uint64(r.buf[off:]))
}

// str decodes a fixed-width null-padded text field.
func (r fieldReader) str(off, n int) string {
	b := r.buf[off : off+n]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// timestamp decodes the trigger timestamp: seconds as f64 followed by
// minute, hour, day and month bytes and a 16-bit year.
func (r fieldReader) timestamp(off int) time.Time {
	secs := r.f64(off)
	sec := int(secs)
	nsec := int((secs - float64(sec)) * 1e9)
	minute := int(r.u8(off + 8))
	hour := int(r.u8(off + 9))
	day := int(r.u8(off + 10))
	month := time.Month(r.u8(off + 11))
	year := int(r.i16(off + 12))
	return time.Date(year, month, day, hour, minute, sec, nsec, time.UTC)
}
