package ola

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultBufferLength is the number of channels in a DMX universe.
const DefaultBufferLength = 512

// Buffer holds one value per DMX channel of a universe.
type Buffer []byte

// NewBuffer returns a zeroed buffer of the given length with values copied
// into its leading channels. Values beyond length are dropped.
func NewBuffer(length int, values []byte) Buffer {
	if length < 0 {
		length = 0
	}
	b := make(Buffer, length)
	copy(b, values)
	return b
}

// String encodes the buffer the way set_dmx expects it: decimal values
// separated by commas.
func (b Buffer) String() string {
	if len(b) == 0 {
		return ""
	}
	// "255," is the widest field.
	out := make([]byte, 0, len(b)*4)
	for i, v := range b {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(v), 10)
	}
	return string(out)
}

// ParseBuffer decodes a comma separated list of decimal channel values.
func ParseBuffer(s string) (Buffer, error) {
	if s == "" {
		return Buffer{}, nil
	}
	fields := strings.Split(s, ",")
	b := make(Buffer, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		b[i] = byte(v)
	}
	return b, nil
}
