package ringbuf

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/FYZAFH/audiotab/core/errkind"
)

// Reader maps an existing ring buffer file read-only. It is a minimal
// implementation of the header-parsing contract external visualization
// readers must satisfy (§4.12); full decimation/rendering is out of
// scope here.
type Reader struct {
	file   *os.File
	data   []byte
	header Header
}

// Open maps the ring buffer file at path and parses its header.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening ring buffer file %q: %s", errkind.ErrIO, path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: stat ring buffer file %q: %s", errkind.ErrIO, path, err)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: mmap ring buffer file %q: %s", errkind.ErrIO, path, err)
	}

	header, err := parseHeader(data)
	if err != nil {
		unix.Munmap(data)
		file.Close()
		return nil, err
	}

	return &Reader{file: file, data: data, header: header}, nil
}

// Header returns the ring buffer's static geometry.
func (r *Reader) Header() Header { return r.header }

// Sequence loads the current write_sequence with acquire ordering.
func (r *Reader) Sequence() uint64 { return loadSequence(r.data) }

// LatestWindow returns the most recently written samples_per_write
// samples for channel k, as of the moment it's called. A reader racing
// an in-progress writer call may observe a torn block; callers that
// need a consistent snapshot should re-read Sequence before and after
// and retry on mismatch, per §4.12.
func (r *Reader) LatestWindow(channel int) ([]float64, error) {
	if channel < 0 || channel >= r.header.ChannelCount {
		return nil, fmt.Errorf("%w: channel %d out of range [0,%d)", errkind.ErrInvalidConfig, channel, r.header.ChannelCount)
	}

	seq := r.Sequence()
	if seq == 0 {
		return nil, nil
	}
	start := int((seq - 1) * uint64(r.header.SamplesPerWrite) % uint64(r.header.Capacity))

	base := channelOffset(r.header.Capacity, channel)
	out := make([]float64, r.header.SamplesPerWrite)
	for i := range out {
		idx := (start + i) % r.header.Capacity
		ptr := (*float64)(unsafe.Pointer(&r.data[base+int64(idx)*8]))
		out[i] = *ptr
	}
	return out, nil
}

// Close unmaps and closes the backing file.
func (r *Reader) Close() error {
	if err := unix.Munmap(r.data); err != nil {
		r.file.Close()
		return fmt.Errorf("%w: munmap ring buffer file: %s", errkind.ErrIO, err)
	}
	return r.file.Close()
}
