// SPDX-License-Identifier: MPL-2.0
/*
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package lecroyutils_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sibartel/lecroyutils"
)

func TestMarshalRoundTrip(t *testing.T) {
	desc := lecroyutils.Descriptor{
		CommType:       lecroyutils.CommWord,
		VerticalGain:   0.001,
		VerticalOffset: 0.05,
		HorizInterval:  2e-9,
		HorizOffset:    -1e-6,
		VerticalUnit:   "V",
		HorizontalUnit: "S",
	}

	want := make([]float64, 500)
	for i := range want {
		want[i] = float64(i-250) * 0.001
	}

	data, err := lecroyutils.Marshal(desc, [][]float64{want})
	require.NoError(t, err)
	require.Len(t, data, 346+500*2)

	wf, err := lecroyutils.Decode(data)
	require.NoError(t, err)
	require.Len(t, wf.Values, len(want))
	for i := range want {
		// One ADC count of quantization at most.
		assert.InDelta(t, want[i], wf.Values[i], 0.001)
	}
	assert.Equal(t, "V", wf.Desc.VerticalUnit)
	assert.InDelta(t, 0.05, wf.Desc.VerticalOffset, 1e-7)
}

func TestMarshalSequenceRoundTrip(t *testing.T) {
	desc := lecroyutils.Descriptor{
		CommType:      lecroyutils.CommWord,
		VerticalGain:  0.002,
		HorizInterval: 1e-9,
		TriggerTimes: []lecroyutils.SegmentTime{
			{TriggerTime: 0},
			{TriggerTime: 4e-3, TriggerOffset: 2.5e-10},
			{TriggerTime: 9e-3, TriggerOffset: -1e-10},
		},
	}

	segs := [][]float64{
		rampSegment(20, 0.002),
		rampSegment(20, 0.002),
		rampSegment(20, 0.002),
	}

	data, err := lecroyutils.Marshal(desc, segs)
	require.NoError(t, err)
	// Descriptor, three trigger-time pairs, then samples.
	require.Len(t, data, 346+3*16+60*2)

	wf, err := lecroyutils.Decode(data)
	require.NoError(t, err)
	require.Equal(t, 3, wf.SegmentCount())
	assert.Equal(t, 4e-3, wf.Segments[1].TriggerTime)
	assert.Equal(t, 2.5e-10, wf.Segments[1].TriggerOffset)
	assert.Equal(t, -1e-10, wf.Segments[2].TriggerOffset)
}

func TestMarshalBigEndian(t *testing.T) {
	desc := testDescriptor()
	desc.ByteOrder = binary.BigEndian

	data, err := lecroyutils.Marshal(desc, [][]float64{rampSegment(8, 0.002)})
	require.NoError(t, err)

	// comm_order 0 marks big endian.
	assert.Equal(t, []byte{0, 0}, data[34:36])

	wf, err := lecroyutils.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, binary.ByteOrder(binary.BigEndian), wf.Desc.ByteOrder)
}

func TestMarshalClampsOutOfRange(t *testing.T) {
	desc := lecroyutils.Descriptor{
		CommType:     lecroyutils.CommByte,
		VerticalGain: 0.01,
	}

	// 10.0 / 0.01 = 1000 counts, beyond int8.
	data, err := lecroyutils.Marshal(desc, [][]float64{{10.0, -10.0}})
	require.NoError(t, err)

	wf, err := lecroyutils.Decode(data)
	require.NoError(t, err)
	assert.InDelta(t, 127*0.01, wf.Values[0], 1e-6)
	assert.InDelta(t, -128*0.01, wf.Values[1], 1e-6)
}

func TestMarshalArgumentErrors(t *testing.T) {
	valid := testDescriptor()

	_, err := lecroyutils.Marshal(valid, nil)
	require.Error(t, err)

	_, err = lecroyutils.Marshal(valid, [][]float64{{1, 2}, {1}})
	require.Error(t, err)

	noGain := valid
	noGain.VerticalGain = 0
	_, err = lecroyutils.Marshal(noGain, [][]float64{{1}})
	require.Error(t, err)

	badType := valid
	badType.CommType = 7
	_, err = lecroyutils.Marshal(badType, [][]float64{{1}})
	require.ErrorIs(t, err, lecroyutils.ErrUnsupportedEncoding)

	// Sequence mode requires one trigger-time entry per segment.
	_, err = lecroyutils.Marshal(valid, [][]float64{{1}, {2}})
	require.Error(t, err)
}
