package snapshot

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/notargets/meshtopo/mesh"
	"github.com/notargets/meshtopo/types"
)

var (
	ErrCorrupt  = errors.New("corrupt snapshot")
	ErrChecksum = errors.New("snapshot checksum mismatch")
	ErrVersion  = errors.New("unsupported snapshot version")
)

var (
	magic          = [4]byte{'M', 'T', 'S', '0'}
	formatVersion  = uint16(1)
	headerFixedLen = 16
)

/*
File layout:

	[magic 4][version uint16][compression uint8][reserved 9]
	[block: UncompressedSize uint32, CompressedSize uint32, data]
	[CRC32 (IEEE) of the uncompressed payload, uint32]

All integers are little endian. The payload holds the mesh options, the vertex
table, the insertion log, the per dimension element counts, the regions as
serialized roaring bitmaps and the attributes. Reading replays the log, which
reproduces every element id.
*/
type Writer struct {
	compression Compression
}

type Option func(*Writer)

func WithCompression(c Compression) Option {
	return func(w *Writer) { w.compression = c }
}

func NewWriter(opts ...Option) *Writer {
	w := &Writer{compression: CompressionZSTD}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write serializes m to out.
func Write(out io.Writer, m *mesh.Mesh, opts ...Option) error {
	return NewWriter(opts...).Write(out, m)
}

func (w *Writer) Write(out io.Writer, m *mesh.Mesh) (err error) {
	var payload bytes.Buffer
	if err = encodeMesh(&payload, m); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	block, err := compressBlock(payload.Bytes(), w.compression)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(out)
	header := make([]byte, headerFixedLen)
	copy(header, magic[:])
	binary.LittleEndian.PutUint16(header[4:6], formatVersion)
	header[6] = uint8(w.compression)
	// header[7:16] reserved
	if _, err = bw.Write(header); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	if _, err = bw.Write(block); err != nil {
		return err
	}
	if err = binary.Write(bw, binary.LittleEndian, crc32.ChecksumIEEE(payload.Bytes())); err != nil {
		return err
	}
	return bw.Flush()
}

// Read restores a mesh. CellDimension, GeometricDimension and Layouts come from
// the snapshot; the logger and engine from opts.
func Read(in io.Reader, opts mesh.Options) (m *mesh.Mesh, err error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	if len(data) < headerFixedLen+blockHeaderSize+4 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(data))
	}
	if !bytes.Equal(data[:4], magic[:]) {
		return nil, fmt.Errorf("%w: invalid header magic", ErrCorrupt)
	}
	if version := binary.LittleEndian.Uint16(data[4:6]); version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, version)
	}
	compression := Compression(data[6])
	var (
		block = data[headerFixedLen : len(data)-4]
		sum   = binary.LittleEndian.Uint32(data[len(data)-4:])
	)
	payload, err := decompressBlock(block, compression)
	if err != nil {
		return nil, err
	}
	if crc32.ChecksumIEEE(payload) != sum {
		return nil, ErrChecksum
	}
	if m, err = decodeMesh(bytes.NewReader(payload), opts); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return m, nil
}

// encoder keeps the first write error and ignores later writes.
type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) put(v any) {
	if e.err == nil {
		e.err = binary.Write(e.w, binary.LittleEndian, v)
	}
}

func (e *encoder) blob(b []byte) {
	e.put(uint32(len(b)))
	if e.err == nil {
		_, e.err = e.w.Write(b)
	}
}

func encodeMesh(w io.Writer, m *mesh.Mesh) error {
	var (
		e = &encoder{w: w}
		D = m.CellDimension()
	)
	e.put(uint8(D))
	e.put(uint8(m.GeometricDimension()))
	for d := 0; d <= D; d++ {
		e.put(uint8(m.Layout(d)))
	}

	e.put(uint64(m.Count(0)))
	for _, p := range m.Points() {
		e.put([]float64(p))
	}

	history := m.History()
	e.put(uint64(len(history)))
	for _, entry := range history {
		e.put(uint8(entry.Shape))
		e.put(uint32(len(entry.Vertices)))
		for _, v := range entry.Vertices {
			e.put(uint32(v))
		}
	}
	for d := 0; d <= D; d++ {
		e.put(uint64(m.Count(d)))
	}

	regions := m.Regions()
	e.put(uint32(len(regions)))
	for _, r := range regions {
		e.blob([]byte(r.Name()))
		for d := 0; d <= D; d++ {
			b, err := r.Members(d).ToBytes()
			if err != nil {
				return err
			}
			e.blob(b)
		}
	}

	a := m.Attributes()
	names := a.ScalarNames()
	e.put(uint32(len(names)))
	for _, name := range names {
		field := a.ScalarField(name)
		e.blob([]byte(name))
		e.put(uint64(len(field)))
		for _, ref := range mesh.SortedRefs(field) {
			e.put(uint8(ref.Dim))
			e.put(uint32(ref.ID))
			e.put(field[ref])
		}
	}
	names = a.VectorNames()
	e.put(uint32(len(names)))
	for _, name := range names {
		field := a.VectorField(name)
		e.blob([]byte(name))
		e.put(uint64(len(field)))
		for _, ref := range mesh.SortedRefs(field) {
			e.put(uint8(ref.Dim))
			e.put(uint32(ref.ID))
			e.put(uint32(len(field[ref])))
			e.put(field[ref])
		}
	}
	return e.err
}

// decoder keeps the first read error; lengths are checked against the bytes left.
type decoder struct {
	r   *bytes.Reader
	err error
}

func (d *decoder) get(v any) {
	if d.err == nil {
		if d.err = binary.Read(d.r, binary.LittleEndian, v); d.err != nil {
			d.err = fmt.Errorf("%w: %w", ErrCorrupt, d.err)
		}
	}
}

func (d *decoder) count(elemSize int) int {
	var n uint64
	d.get(&n)
	return d.check(n, elemSize)
}

func (d *decoder) count32(elemSize int) int {
	var n uint32
	d.get(&n)
	return d.check(uint64(n), elemSize)
}

func (d *decoder) check(n uint64, elemSize int) int {
	if d.err == nil && n*uint64(elemSize) > uint64(d.r.Len()) {
		d.err = fmt.Errorf("%w: length %d exceeds remaining %d bytes", ErrCorrupt, n, d.r.Len())
	}
	if d.err != nil {
		return 0
	}
	return int(n)
}

func (d *decoder) blob() []byte {
	b := make([]byte, d.count32(1))
	if d.err == nil {
		_, d.err = io.ReadFull(d.r, b)
	}
	return b
}

func (d *decoder) u8() int {
	var v uint8
	d.get(&v)
	return int(v)
}

func (d *decoder) u32() int {
	var v uint32
	d.get(&v)
	return int(v)
}

func decodeMesh(r *bytes.Reader, base mesh.Options) (m *mesh.Mesh, err error) {
	d := &decoder{r: r}
	opts := base
	opts.CellDimension = d.u8()
	opts.GeometricDimension = d.u8()
	if d.err != nil {
		return nil, d.err
	}
	opts.Layouts = make(map[int]mesh.BoundaryLayout)
	for dim := 0; dim <= opts.CellDimension; dim++ {
		opts.Layouts[dim] = mesh.BoundaryLayout(d.u8())
	}
	if d.err != nil {
		return nil, d.err
	}
	if m, err = mesh.NewMesh(opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	nv := d.count(8 * opts.GeometricDimension)
	for i := 0; i < nv; i++ {
		p := make([]float64, opts.GeometricDimension)
		if d.get(p); d.err != nil {
			return nil, d.err
		}
		if _, err = m.CreateVertex(p); err != nil {
			return nil, err
		}
	}

	ne := d.count(5)
	for i := 0; i < ne; i++ {
		shape := types.Shape(d.u8())
		ids := make([]int, d.count32(4))
		for j := range ids {
			ids[j] = d.u32()
		}
		if d.err != nil {
			return nil, d.err
		}
		if _, err = m.CreateShape(shape, ids); err != nil {
			return nil, fmt.Errorf("replaying %s %v: %w", shape, ids, err)
		}
	}
	for dim := 0; dim <= opts.CellDimension; dim++ {
		var n uint64
		d.get(&n)
		if d.err == nil && int(n) != m.Count(dim) {
			return nil, fmt.Errorf("%w: replay produced %d elements of dimension %d, expected %d",
				ErrCorrupt, m.Count(dim), dim, n)
		}
	}

	nr := d.count32(4)
	for i := 0; i < nr; i++ {
		name := string(d.blob())
		if d.err != nil {
			return nil, d.err
		}
		reg, err := m.CreateRegion(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		for dim := 0; dim <= opts.CellDimension; dim++ {
			b := d.blob()
			if d.err != nil {
				return nil, d.err
			}
			bm := roaring.New()
			if err = bm.UnmarshalBinary(b); err != nil {
				return nil, fmt.Errorf("%w: region %q: %w", ErrCorrupt, name, err)
			}
			if err = reg.Restore(dim, bm); err != nil {
				return nil, err
			}
		}
	}

	a := m.Attributes()
	ns := d.count32(4)
	for i := 0; i < ns; i++ {
		name := string(d.blob())
		n := d.count(13)
		for j := 0; j < n; j++ {
			dim, id := d.u8(), d.u32()
			var val float64
			d.get(&val)
			if d.err != nil {
				return nil, d.err
			}
			if err = a.SetScalar(name, dim, id, val); err != nil {
				return nil, err
			}
		}
	}
	nvec := d.count32(4)
	for i := 0; i < nvec; i++ {
		name := string(d.blob())
		n := d.count(9)
		for j := 0; j < n; j++ {
			dim, id := d.u8(), d.u32()
			val := make([]float64, d.count32(8))
			d.get(val)
			if d.err != nil {
				return nil, d.err
			}
			if err = a.SetVector(name, dim, id, val); err != nil {
				return nil, err
			}
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.Len())
	}
	return m, nil
}

// Summary describes a snapshot without replaying it.
type Summary struct {
	Compression  Compression
	StoredBytes  int
	PayloadBytes int
}

// Inspect reads the header and block sizes.
func Inspect(in io.Reader) (s Summary, err error) {
	header := make([]byte, headerFixedLen+blockHeaderSize)
	if _, err = io.ReadFull(in, header); err != nil {
		return s, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if !bytes.Equal(header[:4], magic[:]) {
		return s, fmt.Errorf("%w: invalid header magic", ErrCorrupt)
	}
	s.Compression = Compression(header[6])
	s.PayloadBytes = int(binary.LittleEndian.Uint32(header[headerFixedLen:]))
	s.StoredBytes = int(binary.LittleEndian.Uint32(header[headerFixedLen+4:]))
	if s.StoredBytes == 0 {
		s.StoredBytes = s.PayloadBytes
	}
	return
}
