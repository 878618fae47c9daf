// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestSaveBytes(t *testing.T) {
	require := require.New(t)

	filename := filepath.Join(t.TempDir(), "SaveBytes")

	id := ids.GenerateTestID()
	require.NoError(SaveBytes(filename, id[:]), "Error during call to SaveBytes")
	require.FileExists(filename, "SaveBytes did not create file")

	b, err := os.ReadFile(filename)
	require.NoError(err, "Reading saved file threw an error")
	require.Equal(id[:], b, "ID is different than saved key")
}

func TestLoadBytesIncorrectLength(t *testing.T) {
	require := require.New(t)

	fileName := filepath.Join(t.TempDir(), "TestLoadBytes")
	require.NoError(os.WriteFile(fileName, []byte{1, 2, 3, 4, 5}, 0o600))

	_, err := LoadBytes(fileName, ids.IDLen)
	require.ErrorIs(err, ErrInvalidSize)
}

func TestLoadBytesInvalidFile(t *testing.T) {
	require := require.New(t)

	_, err := LoadBytes(filepath.Join(t.TempDir(), "missing"), ids.IDLen)
	require.ErrorIs(err, os.ErrNotExist)
}

func TestLoadBytes(t *testing.T) {
	require := require.New(t)

	filename := filepath.Join(t.TempDir(), "LoadBytes")
	id := ids.GenerateTestID()
	require.NoError(SaveBytes(filename, id[:]))

	b, err := LoadBytes(filename, ids.IDLen)
	require.NoError(err)
	require.Equal(id[:], b)

	b, err = LoadBytes(filename, -1)
	require.NoError(err)
	require.Equal(id[:], b)
}

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		bal  uint64
		want string
	}{
		{0, "0.000000000"},
		{1, "0.000000001"},
		{500_000_000, "0.500000000"},
		{1_200_000_000, "1.200000000"},
		{math.MaxUint64, "18446744073.709551615"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require := require.New(t)
			require.Equal(tt.want, FormatBalance(tt.bal))

			got, err := ParseBalance(tt.want)
			require.NoError(err)
			require.Equal(tt.bal, got)
		})
	}
}

func TestParseBalance(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr error
	}{
		{in: "1", want: 1_000_000_000},
		{in: "0.3", want: 300_000_000},
		{in: ".5", want: 500_000_000},
		{in: "2.", want: 2_000_000_000},
		{in: "", wantErr: ErrInvalidBalance},
		{in: "abc", wantErr: ErrInvalidBalance},
		{in: "0.0000000001", wantErr: ErrInvalidBalance},
		{in: "18446744073.709551616", wantErr: ErrInvalidBalance},
		{in: "-1", wantErr: ErrInvalidBalance},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require := require.New(t)
			got, err := ParseBalance(tt.in)
			require.ErrorIs(err, tt.wantErr)
			require.Equal(tt.want, got)
		})
	}
}
