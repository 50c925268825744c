package ringbuf

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/FYZAFH/audiotab/core/errkind"
)

// headerSize is the fixed header region every ring buffer file reserves
// before channel data begins, per §4.12.
const headerSize = 4096

const magic uint32 = 0x41544142 // "ATAB" read as a big-endian value; stored little-endian, the file's first four bytes are "BATA"
const formatVersion uint32 = 1

// Field offsets within the header, all naturally aligned for the atomic
// access the write sequence needs.
const (
	offsetMagic           = 0
	offsetVersion         = 4
	offsetSampleRate      = 8
	offsetChannelCount    = 12
	offsetCapacity        = 16 // samples per channel, 8 bytes
	offsetWriteSequence   = 24 // atomic, 8 bytes
	offsetSamplesPerWrite = 32
)

// Header is the parsed, read-only view of a ring buffer's header region.
type Header struct {
	SampleRate      int
	ChannelCount    int
	Capacity        int // samples per channel
	SamplesPerWrite int
}

// dataSize returns the total file size (header + planar channel data)
// for a ring buffer with the given geometry.
func dataSize(channelCount, capacity int) int64 {
	return headerSize + int64(channelCount)*int64(capacity)*8
}

func writeHeader(data []byte, h Header) {
	binary.LittleEndian.PutUint32(data[offsetMagic:], magic)
	binary.LittleEndian.PutUint32(data[offsetVersion:], formatVersion)
	binary.LittleEndian.PutUint32(data[offsetSampleRate:], uint32(h.SampleRate))
	binary.LittleEndian.PutUint32(data[offsetChannelCount:], uint32(h.ChannelCount))
	binary.LittleEndian.PutUint64(data[offsetCapacity:], uint64(h.Capacity))
	binary.LittleEndian.PutUint32(data[offsetSamplesPerWrite:], uint32(h.SamplesPerWrite))
}

func parseHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, fmt.Errorf("%w: ring buffer file shorter than header size %d", errkind.ErrIO, headerSize)
	}
	if got := binary.LittleEndian.Uint32(data[offsetMagic:]); got != magic {
		return Header{}, fmt.Errorf("%w: ring buffer magic mismatch: got %#x, want %#x", errkind.ErrIO, got, magic)
	}
	if got := binary.LittleEndian.Uint32(data[offsetVersion:]); got != formatVersion {
		return Header{}, fmt.Errorf("%w: ring buffer version mismatch: got %d, want %d", errkind.ErrIO, got, formatVersion)
	}
	return Header{
		SampleRate:      int(binary.LittleEndian.Uint32(data[offsetSampleRate:])),
		ChannelCount:    int(binary.LittleEndian.Uint32(data[offsetChannelCount:])),
		Capacity:        int(binary.LittleEndian.Uint64(data[offsetCapacity:])),
		SamplesPerWrite: int(binary.LittleEndian.Uint32(data[offsetSamplesPerWrite:])),
	}, nil
}

// loadSequence reads the write sequence with acquire ordering.
func loadSequence(data []byte) uint64 {
	ptr := (*uint64)(unsafe.Pointer(&data[offsetWriteSequence]))
	return atomic.LoadUint64(ptr)
}

// storeSequence writes the write sequence with release ordering.
func storeSequence(data []byte, seq uint64) {
	ptr := (*uint64)(unsafe.Pointer(&data[offsetWriteSequence]))
	atomic.StoreUint64(ptr, seq)
}

// channelOffset returns the byte offset of channel k's planar data.
func channelOffset(capacity, k int) int64 {
	return headerSize + int64(k)*int64(capacity)*8
}
