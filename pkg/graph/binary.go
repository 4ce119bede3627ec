package graph

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"

	"github.com/paulmach/orb"

	"shiproute/pkg/coastline"
)

const (
	magicBytes = "SHIPGRPH"
	version    = uint32(1)
	maxNodes   = 10_000_000
	maxEdges   = 100_000_000
)

// fileHeader is the graph.bin / graph_shortcuts.bin binary header (spec §4.5).
type fileHeader struct {
	Magic     [8]byte
	Version   uint32
	NodeCount uint32
	EdgeCount uint64
}

// WriteBinary serializes g to path in the format spec §4.5 describes,
// followed (when g carries shortcuts) by the expansion side table of §4.7.
// The file is written to a temporary path and renamed into place so a
// reader never observes a partial file (teacher's binary.go pattern).
func WriteBinary(path string, g *Graph) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	crcWriter := crc32Writer{w: f, hash: crc32.NewIEEE()}
	w := &crcWriter

	hdr := fileHeader{
		Version:   version,
		NodeCount: g.NumNodes,
		EdgeCount: uint64(g.NumEdges),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// N node records { f32 lat, f32 lon }.
	for i := uint32(0); i < g.NumNodes; i++ {
		if err := binary.Write(w, binary.LittleEndian, float32(g.NodeLat[i])); err != nil {
			return fmt.Errorf("write node lat: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, float32(g.NodeLon[i])); err != nil {
			return fmt.Errorf("write node lon: %w", err)
		}
	}

	// N+1 u64 offsets.
	offsets := make([]uint64, len(g.FirstOut))
	for i, v := range g.FirstOut {
		offsets[i] = uint64(v)
	}
	if err := writeUint64Slice(w, offsets); err != nil {
		return fmt.Errorf("write offsets: %w", err)
	}

	// M edge records { u32 target, u32 cost_m }.
	for i := uint32(0); i < g.NumEdges; i++ {
		if err := binary.Write(w, binary.LittleEndian, g.Head[i]); err != nil {
			return fmt.Errorf("write edge target: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, g.Weight[i]); err != nil {
			return fmt.Errorf("write edge cost: %w", err)
		}
	}

	// Optional shortcut expansion side table (spec §4.7).
	if g.HasShortcuts() {
		expansionCount := uint64(len(g.ExpansionNodes))
		if err := binary.Write(w, binary.LittleEndian, expansionCount); err != nil {
			return fmt.Errorf("write expansion count: %w", err)
		}
		if err := writeUint32Slice(w, g.ExpansionNodes); err != nil {
			return fmt.Errorf("write expansion nodes: %w", err)
		}
		if err := writeUint64Slice(w, g.ExpansionIndex); err != nil {
			return fmt.Errorf("write expansion index: %w", err)
		}
	}

	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// ReadBinary deserializes a Graph from path, validating magic, version, and
// the CSR invariants (spec §4.5, §8 "CSR well-formedness"). withShortcuts
// tells the reader whether to expect the expansion side table.
func ReadBinary(path string, withShortcuts bool) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	crcReader := crc32Reader{r: f, hash: crc32.NewIEEE()}
	r := &crcReader

	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NodeCount > maxNodes {
		return nil, fmt.Errorf("node count %d exceeds limit %d", hdr.NodeCount, maxNodes)
	}
	if hdr.EdgeCount > maxEdges {
		return nil, fmt.Errorf("edge count %d exceeds limit %d", hdr.EdgeCount, maxEdges)
	}

	g := &Graph{NumNodes: hdr.NodeCount, NumEdges: uint32(hdr.EdgeCount)}

	g.NodeLat = make([]float64, hdr.NodeCount)
	g.NodeLon = make([]float64, hdr.NodeCount)
	for i := uint32(0); i < hdr.NodeCount; i++ {
		var lat, lon float32
		if err := binary.Read(r, binary.LittleEndian, &lat); err != nil {
			return nil, fmt.Errorf("read node lat: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &lon); err != nil {
			return nil, fmt.Errorf("read node lon: %w", err)
		}
		g.NodeLat[i] = float64(lat)
		g.NodeLon[i] = float64(lon)
	}

	offsets, err := readUint64Slice(r, int(hdr.NodeCount)+1)
	if err != nil {
		return nil, fmt.Errorf("read offsets: %w", err)
	}
	g.FirstOut = make([]uint32, len(offsets))
	for i, v := range offsets {
		g.FirstOut[i] = uint32(v)
	}

	g.Head = make([]uint32, hdr.EdgeCount)
	g.Weight = make([]uint32, hdr.EdgeCount)
	for i := uint64(0); i < hdr.EdgeCount; i++ {
		if err := binary.Read(r, binary.LittleEndian, &g.Head[i]); err != nil {
			return nil, fmt.Errorf("read edge target: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &g.Weight[i]); err != nil {
			return nil, fmt.Errorf("read edge cost: %w", err)
		}
	}

	if withShortcuts {
		var expansionCount uint64
		if err := binary.Read(r, binary.LittleEndian, &expansionCount); err != nil {
			return nil, fmt.Errorf("read expansion count: %w", err)
		}
		if g.ExpansionNodes, err = readUint32Slice(r, int(expansionCount)); err != nil {
			return nil, fmt.Errorf("read expansion nodes: %w", err)
		}
		if g.ExpansionIndex, err = readUint64Slice(r, int(hdr.EdgeCount)); err != nil {
			return nil, fmt.Errorf("read expansion index: %w", err)
		}
	}

	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	if err := validateCSR(g.FirstOut, g.Head, hdr.NodeCount); err != nil {
		return nil, fmt.Errorf("CSR invalid: %w", err)
	}

	return g, nil
}

// validateCSR checks the invariants spec §3/§8 require of a written graph.
func validateCSR(firstOut, head []uint32, numNodes uint32) error {
	if uint32(len(firstOut)) != numNodes+1 {
		return fmt.Errorf("offsets length %d != NumNodes+1 %d", len(firstOut), numNodes+1)
	}
	numEdges := firstOut[numNodes]
	if uint32(len(head)) != numEdges {
		return fmt.Errorf("edges length %d != offsets[N] %d", len(head), numEdges)
	}
	for i := uint32(1); i <= numNodes; i++ {
		if firstOut[i] < firstOut[i-1] {
			return fmt.Errorf("offsets not monotonic at %d: %d < %d", i, firstOut[i], firstOut[i-1])
		}
	}
	for i, h := range head {
		if h >= numNodes {
			return fmt.Errorf("edges[%d].target=%d >= NumNodes=%d", i, h, numNodes)
		}
	}
	return nil
}

// WriteCoastlines serializes stitched rings to coastlines.bin (spec §6):
// u32 ring_count, then per ring u32 point_count followed by point_count
// { f32 lat, f32 lon } records.
func WriteCoastlines(path string, rings []coastline.Ring) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	if err := binary.Write(f, binary.LittleEndian, uint32(len(rings))); err != nil {
		return fmt.Errorf("write ring count: %w", err)
	}
	for _, r := range rings {
		if err := binary.Write(f, binary.LittleEndian, uint32(len(r.Points))); err != nil {
			return fmt.Errorf("write ring point count: %w", err)
		}
		for _, pt := range r.Points {
			if err := binary.Write(f, binary.LittleEndian, float32(pt.Y())); err != nil {
				return fmt.Errorf("write ring point lat: %w", err)
			}
			if err := binary.Write(f, binary.LittleEndian, float32(pt.X())); err != nil {
				return fmt.Errorf("write ring point lon: %w", err)
			}
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// ReadCoastlines deserializes coastlines.bin into rings. Orientation is not
// stored on disk; SignedArea and IsLandRing are recomputed here with
// coastline.SignedArea, which is cheap and deterministic.
func ReadCoastlines(path string) ([]coastline.Ring, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var ringCount uint32
	if err := binary.Read(f, binary.LittleEndian, &ringCount); err != nil {
		return nil, fmt.Errorf("read ring count: %w", err)
	}

	rings := make([]coastline.Ring, ringCount)
	for i := range rings {
		var pointCount uint32
		if err := binary.Read(f, binary.LittleEndian, &pointCount); err != nil {
			return nil, fmt.Errorf("read ring %d point count: %w", i, err)
		}
		points := make(orb.Ring, pointCount)
		for j := range points {
			var lat, lon float32
			if err := binary.Read(f, binary.LittleEndian, &lat); err != nil {
				return nil, fmt.Errorf("read ring %d point %d lat: %w", i, j, err)
			}
			if err := binary.Read(f, binary.LittleEndian, &lon); err != nil {
				return nil, fmt.Errorf("read ring %d point %d lon: %w", i, j, err)
			}
			points[j] = orb.Point{float64(lon), float64(lat)}
		}
		area := coastline.SignedArea(points)
		rings[i] = coastline.Ring{Points: points, SignedArea: area, IsLandRing: area > 0}
	}

	return rings, nil
}

// Zero-copy I/O helpers using unsafe.Slice, as in the teacher's binary.go.

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func writeUint64Slice(w io.Writer, s []uint64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readUint64Slice(r io.Reader, n int) ([]uint64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

// CRC32 wrapping writers/readers.

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
