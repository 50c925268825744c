package ringbuf

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/FYZAFH/audiotab/core/errkind"
)

// Writer appends planar channel samples to a memory-mapped ring buffer
// file. A Writer has exactly one owner; it is not safe for concurrent
// Write calls (the file itself is a single-writer/many-reader region,
// per §4.9's shared-resource notes).
type Writer struct {
	file   *os.File
	data   []byte
	header Header
	seq    uint64
}

// Create allocates (or truncates) the file at path to the exact size
// implied by the given geometry, writes its header, and memory-maps it
// for writing. samplesPerWrite may not exceed capacity but need not divide
// it evenly: a block that crosses the end of the ring wraps to its start.
func Create(path string, sampleRate, channelCount, capacity, samplesPerWrite int) (*Writer, error) {
	if channelCount <= 0 || capacity <= 0 || samplesPerWrite <= 0 {
		return nil, fmt.Errorf("%w: ring buffer geometry must be positive (channels=%d capacity=%d samples_per_write=%d)",
			errkind.ErrInvalidConfig, channelCount, capacity, samplesPerWrite)
	}
	if samplesPerWrite > capacity {
		return nil, fmt.Errorf("%w: samples_per_write %d exceeds capacity %d", errkind.ErrInvalidConfig, samplesPerWrite, capacity)
	}

	size := dataSize(channelCount, capacity)

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening ring buffer file %q: %s", errkind.ErrIO, path, err)
	}
	if err := file.Truncate(size); err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: sizing ring buffer file %q: %s", errkind.ErrIO, path, err)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: mmap ring buffer file %q: %s", errkind.ErrIO, path, err)
	}

	header := Header{SampleRate: sampleRate, ChannelCount: channelCount, Capacity: capacity, SamplesPerWrite: samplesPerWrite}
	writeHeader(data, header)
	storeSequence(data, 0)

	return &Writer{file: file, data: data, header: header}, nil
}

// Write appends one sample block: channels must have exactly
// header.ChannelCount entries, each exactly header.SamplesPerWrite
// samples long. The start index within each channel's ring is
// (write_sequence * samples_per_write) mod capacity; a block that
// crosses the end of the ring wraps to its start. write_sequence is
// incremented with release ordering only after every channel has been
// written.
func (w *Writer) Write(channels [][]float64) error {
	if len(channels) != w.header.ChannelCount {
		return fmt.Errorf("%w: got %d channels, want %d", errkind.ErrProcessingError, len(channels), w.header.ChannelCount)
	}
	for k, samples := range channels {
		if len(samples) != w.header.SamplesPerWrite {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", errkind.ErrProcessingError, k, len(samples), w.header.SamplesPerWrite)
		}
	}

	start := int(w.seq*uint64(w.header.SamplesPerWrite)) % w.header.Capacity
	for k, samples := range channels {
		w.writeChannelBlock(k, start, samples)
	}

	w.seq++
	storeSequence(w.data, w.seq)
	return nil
}

func (w *Writer) writeChannelBlock(channel, start int, samples []float64) {
	base := channelOffset(w.header.Capacity, channel)
	n := len(samples)

	first := n
	if start+n > w.header.Capacity {
		first = w.header.Capacity - start
	}

	for i := 0; i < first; i++ {
		w.putSample(base, start+i, samples[i])
	}
	for i := first; i < n; i++ {
		w.putSample(base, i-first, samples[i])
	}
}

func (w *Writer) putSample(channelBase int64, index int, value float64) {
	ptr := (*float64)(unsafe.Pointer(&w.data[channelBase+int64(index)*8]))
	*ptr = value
}

// Sequence returns the writer's current write_sequence.
func (w *Writer) Sequence() uint64 { return w.seq }

// Close unmaps and closes the backing file.
func (w *Writer) Close() error {
	if err := unix.Munmap(w.data); err != nil {
		w.file.Close()
		return fmt.Errorf("%w: munmap ring buffer file: %s", errkind.ErrIO, err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("%w: closing ring buffer file: %s", errkind.ErrIO, err)
	}
	return nil
}
