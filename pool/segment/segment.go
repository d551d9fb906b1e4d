// Package segment manages the shared memory segment that holds the port pool.
//
// A segment is a file, normally under /dev/shm, mapped MAP_SHARED into every
// process that uses the pool. It starts with a fixed 128-byte header followed
// by a page-aligned data region:
//
//	0x0000  header (magic, version, sizes, creator pid, ready flag)
//	0x1000  data region (pool data block)
//
// The creating process (the daemon) formats the data region and then calls
// MarkReady. Open refuses segments that are not ready yet.
package segment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/portpool/internal/buf"
	"github.com/joshuapare/portpool/internal/logger"
	"github.com/joshuapare/portpool/pool/dirty"
)

const (
	// Magic identifies a pool segment.
	Magic = "IOXSHM\x00\x00"

	// Version is the current header layout version.
	Version uint32 = 1

	// HeaderSize is the size of the segment header.
	HeaderSize = 128

	// FilePrefix is prepended to segment names by PathFor.
	FilePrefix = "iox_"

	shmDir = "/dev/shm"
)

var (
	ErrBadMagic  = errors.New("segment: bad magic")
	ErrVersion   = errors.New("segment: unsupported version")
	ErrNotReady  = errors.New("segment: not ready")
	ErrTruncated = errors.New("segment: truncated")
	ErrClosed    = errors.New("segment: closed")
	ErrDataSize  = errors.New("segment: invalid data size")
)

// header is the on-disk segment header. Offsets are relative to the start of
// the segment.
type header struct {
	magic      [8]byte       // 0x00
	version    uint32        // 0x08
	flags      uint32        // 0x0C
	totalSize  uint64        // 0x10
	dataOff    uint64        // 0x18
	dataSize   uint64        // 0x20
	creatorPID uint32        // 0x28
	ready      atomic.Uint32 // 0x2C
	_          [80]byte      // 0x30-0x7F
}

var (
	_ [HeaderSize - unsafe.Sizeof(header{})]byte
	_ [unsafe.Sizeof(header{}) - HeaderSize]byte
)

// Info is a copy of the header fields.
type Info struct {
	Version    uint32
	Flags      uint32
	TotalSize  uint64
	DataOffset uint64
	DataSize   uint64
	CreatorPID uint32
	Ready      bool
}

// Segment is a mapped pool segment.
//
// The data region returned by Data stays valid until Close.
type Segment struct {
	path    string
	f       *os.File
	mem     []byte
	hdr     *header
	tracker *dirty.Tracker
}

// DefaultDir returns /dev/shm when it exists and the temp dir otherwise.
func DefaultDir() string {
	if st, err := os.Stat(shmDir); err == nil && st.IsDir() {
		return shmDir
	}
	return os.TempDir()
}

// PathFor returns the segment file path for name inside dir. An empty dir
// means DefaultDir.
func PathFor(dir, name string) string {
	if dir == "" {
		dir = DefaultDir()
	}
	return filepath.Join(dir, FilePrefix+name)
}

// layout returns the data offset and total size for a data region of
// dataSize bytes.
func layout(dataSize int) (dataOff, total int, err error) {
	if dataSize <= 0 {
		return 0, 0, fmt.Errorf("%w: %d", ErrDataSize, dataSize)
	}
	page := os.Getpagesize()
	dataOff, ok := buf.AlignUp(HeaderSize, page)
	if !ok {
		return 0, 0, fmt.Errorf("%w: header alignment overflow", ErrDataSize)
	}
	end, ok := buf.AddOverflowSafe(dataOff, dataSize)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %d overflows", ErrDataSize, dataSize)
	}
	total, ok = buf.AlignUp(end, page)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %d overflows", ErrDataSize, dataSize)
	}
	return dataOff, total, nil
}

// Create makes a new segment at path with room for dataSize bytes of data.
// It fails if the file already exists. The segment is not ready until
// MarkReady is called.
func Create(path string, dataSize int) (*Segment, error) {
	dataOff, total, err := layout(dataSize)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("segment: create %s: %w", path, err)
	}
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(path)
	}
	if err := f.Truncate(int64(total)); err != nil {
		cleanup()
		return nil, fmt.Errorf("segment: resize %s: %w", path, err)
	}
	mem, err := mapFile(f, total)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("segment: map %s: %w", path, err)
	}

	s := newSegment(path, f, mem)
	h := s.hdr
	copy(h.magic[:], Magic)
	h.version = Version
	h.flags = 0
	h.totalSize = uint64(total)
	h.dataOff = uint64(dataOff)
	h.dataSize = uint64(dataSize)
	h.creatorPID = uint32(os.Getpid())
	s.tracker.Add(0, HeaderSize)

	logger.Info("segment created", "path", path, "size", total, "data_offset", dataOff)
	return s, nil
}

// Open maps an existing, ready segment.
func Open(path string) (*Segment, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("segment: open %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("segment: stat %s: %w", path, err)
	}
	size := st.Size()
	if size < HeaderSize {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTruncated, path, size)
	}
	mem, err := mapFile(f, int(size))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("segment: map %s: %w", path, err)
	}
	if err := validate(mem); err != nil {
		_ = unmap(mem)
		_ = f.Close()
		return nil, fmt.Errorf("segment: %s: %w", path, err)
	}

	s := newSegment(path, f, mem)
	logger.Info("segment opened", "path", path, "size", size, "creator_pid", s.hdr.creatorPID)
	return s, nil
}

func newSegment(path string, f *os.File, mem []byte) *Segment {
	s := &Segment{
		path: path,
		f:    f,
		mem:  mem,
		hdr:  (*header)(unsafe.Pointer(&mem[0])),
	}
	s.tracker = dirty.NewTracker(s)
	return s
}

func validate(mem []byte) error {
	h := (*header)(unsafe.Pointer(&mem[0]))
	if string(h.magic[:]) != Magic {
		return fmt.Errorf("%w: %q", ErrBadMagic, h.magic[:])
	}
	if h.version != Version {
		return fmt.Errorf("%w: %d", ErrVersion, h.version)
	}
	if h.ready.Load() == 0 {
		return ErrNotReady
	}
	if h.totalSize != uint64(len(mem)) {
		return fmt.Errorf("%w: header says %d bytes, mapped %d", ErrTruncated, h.totalSize, len(mem))
	}
	if h.dataOff < HeaderSize || h.dataOff > h.totalSize || h.dataSize > h.totalSize-h.dataOff {
		return fmt.Errorf("%w: data region %d+%d outside %d bytes", ErrTruncated, h.dataOff, h.dataSize, h.totalSize)
	}
	return nil
}

// MarkReady publishes the segment to Open. Call it after the data region is
// formatted.
func (s *Segment) MarkReady() {
	s.hdr.ready.Store(1)
	s.tracker.Add(0, HeaderSize)
}

// Ready reports whether MarkReady has been called by the creator. It is
// false after Close.
func (s *Segment) Ready() bool { return s.hdr != nil && s.hdr.ready.Load() != 0 }

// Info returns a copy of the header, or the zero Info after Close.
func (s *Segment) Info() Info {
	h := s.hdr
	if h == nil {
		return Info{}
	}
	return Info{
		Version:    h.version,
		Flags:      h.flags,
		TotalSize:  h.totalSize,
		DataOffset: h.dataOff,
		DataSize:   h.dataSize,
		CreatorPID: h.creatorPID,
		Ready:      h.ready.Load() != 0,
	}
}

// Path returns the segment file path.
func (s *Segment) Path() string { return s.path }

// Bytes returns the whole mapping, header included. It is nil after Close.
func (s *Segment) Bytes() []byte { return s.mem }

// FD returns the descriptor of the backing file.
func (s *Segment) FD() int {
	if s.f == nil {
		return -1
	}
	return int(s.f.Fd())
}

// Data returns the data region.
func (s *Segment) Data() []byte {
	if s.mem == nil {
		return nil
	}
	off := int(s.hdr.dataOff)
	return s.mem[off : off+int(s.hdr.dataSize) : off+int(s.hdr.dataSize)]
}

// DataOffset returns the offset of the data region inside the segment. Dirty
// ranges inside Data are reported relative to the segment, so writers add
// this offset. It returns 0 after Close.
func (s *Segment) DataOffset() int {
	if s.hdr == nil {
		return 0
	}
	return int(s.hdr.dataOff)
}

// Tracker returns the dirty tracker of the mapping.
func (s *Segment) Tracker() *dirty.Tracker { return s.tracker }

// Sync flushes every range recorded by the tracker, header included.
func (s *Segment) Sync(ctx context.Context) error {
	if s.mem == nil {
		return ErrClosed
	}
	if err := s.tracker.FlushAll(ctx); err != nil {
		return fmt.Errorf("segment: sync %s: %w", s.path, err)
	}
	return writeBack(s.f, s.mem)
}

// Close unmaps the segment and closes the file. Closing twice is a no-op.
func (s *Segment) Close() error {
	if s.mem == nil {
		return nil
	}
	err := writeBack(s.f, s.mem)
	if uerr := unmap(s.mem); err == nil {
		err = uerr
	}
	s.mem = nil
	s.hdr = nil
	if s.f != nil {
		if cerr := s.f.Close(); err == nil {
			err = cerr
		}
		s.f = nil
	}
	return err
}

// Remove closes the segment and deletes its file.
func (s *Segment) Remove() error {
	err := s.Close()
	if rerr := os.Remove(s.path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) && err == nil {
		err = rerr
	}
	logger.Info("segment removed", "path", s.path)
	return err
}
