package kfimage

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeRowLine(offset uint32, data []byte) string {
	buf := make([]byte, 0, 6+len(data)+1)
	buf = append(buf,
		byte(offset>>24), byte(offset>>16), byte(offset>>8), byte(offset),
		byte(len(data)>>8), byte(len(data)),
	)
	buf = append(buf, data...)
	buf = append(buf, calculateRowChecksum(buf))
	return strings.ToUpper(hex.EncodeToString(buf))
}

func encodeHeaderLine(romSize, ramSize uint32) string {
	buf := []byte{
		byte(romSize >> 24), byte(romSize >> 16), byte(romSize >> 8), byte(romSize),
		byte(ramSize >> 24), byte(ramSize >> 16), byte(ramSize >> 8), byte(ramSize),
	}
	return strings.ToUpper(hex.EncodeToString(buf))
}

func TestParseReader_SingleRow(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	input := fmt.Sprintf("%s\n%s\n", encodeHeaderLine(1000, 500), encodeRowLine(0, data))

	img, err := ParseReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, uint32(1000), img.ROMSize)
	require.Equal(t, uint32(500), img.RAMSize)
	require.Len(t, img.Rows, 1)
	require.Equal(t, uint32(0), img.Rows[0].Offset)
	require.Equal(t, data, img.Rows[0].Data)
}

func TestParseReader_MultipleUnorderedRows(t *testing.T) {
	row1 := encodeRowLine(256, []byte{0xAA, 0xBB})
	row0 := encodeRowLine(0, []byte{0x11, 0x22, 0x33})
	input := fmt.Sprintf("%s\n%s\n%s\n", encodeHeaderLine(2000, 1000), row1, row0)

	img, err := ParseReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, img.Rows, 2)
	require.Equal(t, uint32(256), img.Rows[0].Offset)
	require.Equal(t, uint32(0), img.Rows[1].Offset)
}

func TestParseReader_SkipsBlankLines(t *testing.T) {
	row := encodeRowLine(0, []byte{0x01})
	input := fmt.Sprintf("%s\n\n%s\n\n", encodeHeaderLine(10, 10), row)

	img, err := ParseReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, img.Rows, 1)
}

func TestParseReader_RejectsBadChecksum(t *testing.T) {
	row := encodeRowLine(0, []byte{0x01, 0x02})
	corrupted := row[:len(row)-2] + "00"
	input := fmt.Sprintf("%s\n%s\n", encodeHeaderLine(10, 10), corrupted)

	_, err := ParseReader(strings.NewReader(input))
	require.Error(t, err)
}

func TestParseReader_RejectsShortHeader(t *testing.T) {
	_, err := ParseReader(strings.NewReader("ABCD\n"))
	require.Error(t, err)
}

func TestParseReader_RejectsEmptyFile(t *testing.T) {
	_, err := ParseReader(strings.NewReader(""))
	require.Error(t, err)
}

func TestParseReader_RejectsBadLength(t *testing.T) {
	row := encodeRowLine(0, []byte{0x01, 0x02, 0x03})
	truncated := row[:len(row)-4]
	input := fmt.Sprintf("%s\n%s\n", encodeHeaderLine(10, 10), truncated)

	_, err := ParseReader(strings.NewReader(input))
	require.Error(t, err)
}
