// SPDX-License-Identifier: MPL-2.0
/*
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package lecroyutils_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sibartel/lecroyutils"
)

// mockSource serves canned transfers keyed by channel name.
type mockSource struct {
	waveforms map[string][]byte
	err       error
}

func (m *mockSource) FetchWaveformBytes(source string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.waveforms[source], nil
}

func (m *mockSource) FetchScreenshot() ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func TestFetchWaveform(t *testing.T) {
	data, err := lecroyutils.Marshal(testDescriptor(), [][]float64{rampSegment(64, 0.002)})
	require.NoError(t, err)

	src := &mockSource{waveforms: map[string][]byte{"C1": data}}

	wf, err := lecroyutils.FetchWaveform(src, "C1")
	require.NoError(t, err)
	require.Len(t, wf.Values, 64)
	assert.Equal(t, "V", wf.Desc.VerticalUnit)
}

func TestFetchWaveformTransportError(t *testing.T) {
	transportErr := errors.New("connection reset")
	src := &mockSource{err: transportErr}

	_, err := lecroyutils.FetchWaveform(src, "C2")
	require.ErrorIs(t, err, transportErr)
}

func TestFetchWaveformBadTransfer(t *testing.T) {
	src := &mockSource{waveforms: map[string][]byte{"C1": []byte("garbage")}}

	_, err := lecroyutils.FetchWaveform(src, "C1")
	require.ErrorIs(t, err, lecroyutils.ErrMarkerNotFound)
}
