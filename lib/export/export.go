/*package export reads and writes .grd files, gridify's on-disk format for
extracted arrays.

A .grd file is a small little-endian header followed by a single
zstd-compressed block holding the array's elements in row-major order. The
header layout is:

   uint32   MagicNumber
   uint32   Version
   uint32   number of axes, nDim
   int64    shape[nDim]
   uint32   number of channel names, nNames
   uint32   name lengths[nNames]
   byte     concatenated names
   uint32   number of times, nTimes (zero for a single frame)
   float64  times[nTimes]
   int64    compressed block size
   byte     compressed block

The format is intended to be read back by gridify and by short scripts, so
everything is fixed-width except the names.
*/
package export

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/DataDog/zstd"

	"github.com/phil-mansfield/gridify/lib/grid"
)

const (
	// MagicNumber is an arbitrary number at the start of all .grd files
	// which should help identify when the code is run on something else by
	// accident.
	MagicNumber = 0x67726964
	// ReverseMagicNumber is the magic number if the file was written with
	// the other byte order.
	ReverseMagicNumber = 0x64697267
	Version            = 1

	// Level is the zstd compression level.
	Level = 3

	// Headers which would need more than these are assumed to be corrupt.
	maxDims  = 16
	maxNames = 1 << 16
	maxTimes = 1 << 24
)

var order = binary.LittleEndian

// File is the contents of a .grd file.
type File struct {
	// Names are the channel names in channel order.
	Names []string
	// Times is nil unless the array is a time series, in which case the
	// leading axis has one entry per time.
	Times []float64
	Array *grid.Array
}

// Write writes f to wr.
func Write(wr io.Writer, f *File) error {
	if f.Array == nil {
		return fmt.Errorf("No array was given to export.Write().")
	}
	shape := f.Array.Shape()
	if len(f.Times) > 0 && (len(shape) == 0 || shape[0] != len(f.Times)) {
		return fmt.Errorf("%d times were given for an array with shape %v.",
			len(f.Times), []int(shape))
	}

	hd := &bytes.Buffer{}
	writeHeader(hd, shape, f.Names, f.Times)

	raw := &bytes.Buffer{}
	if err := binary.Write(raw, order, f.Array.Data()); err != nil {
		return err
	}
	block, err := zstd.CompressLevel(nil, raw.Bytes(), Level)
	if err != nil {
		return err
	}
	binary.Write(hd, order, int64(len(block)))

	if _, err := wr.Write(hd.Bytes()); err != nil {
		return err
	}
	_, err = wr.Write(block)
	return err
}

// writeHeader writes everything before the compressed block. Writes to a
// bytes.Buffer cannot fail.
func writeHeader(
	buf *bytes.Buffer, shape grid.Shape, names []string, times []float64,
) {
	binary.Write(buf, order, uint32(MagicNumber))
	binary.Write(buf, order, uint32(Version))

	binary.Write(buf, order, uint32(len(shape)))
	shape64 := make([]int64, len(shape))
	for i := range shape {
		shape64[i] = int64(shape[i])
	}
	binary.Write(buf, order, shape64)

	binary.Write(buf, order, uint32(len(names)))
	nNames := make([]uint32, len(names))
	for i := range names {
		nNames[i] = uint32(len(names[i]))
	}
	binary.Write(buf, order, nNames)
	for i := range names {
		buf.WriteString(names[i])
	}

	binary.Write(buf, order, uint32(len(times)))
	binary.Write(buf, order, times)
}

// Read reads a File from rd.
func Read(rd io.Reader) (*File, error) {
	var magic, version uint32
	if err := binary.Read(rd, order, &magic); err != nil {
		return nil, err
	}
	switch magic {
	case MagicNumber:
	case ReverseMagicNumber:
		return nil, fmt.Errorf("The file was written with a big-endian " +
			"byte order, which gridify does not write.")
	default:
		return nil, fmt.Errorf("The file does not start with the .grd "+
			"magic number, 0x%x. It starts with 0x%x.", MagicNumber, magic)
	}
	if err := binary.Read(rd, order, &version); err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("The file has version %d, but only version "+
			"%d is supported.", version, Version)
	}

	var nDim uint32
	if err := binary.Read(rd, order, &nDim); err != nil {
		return nil, err
	}
	if nDim > maxDims {
		return nil, fmt.Errorf("The header claims %d axes.", nDim)
	}
	shape64 := make([]int64, nDim)
	if err := binary.Read(rd, order, shape64); err != nil {
		return nil, err
	}
	shape := make(grid.Shape, nDim)
	for i := range shape {
		shape[i] = int(shape64[i])
	}

	var nNames uint32
	if err := binary.Read(rd, order, &nNames); err != nil {
		return nil, err
	}
	if nNames > maxNames {
		return nil, fmt.Errorf("The header claims %d channel names.", nNames)
	}
	nameLens := make([]uint32, nNames)
	if err := binary.Read(rd, order, nameLens); err != nil {
		return nil, err
	}
	names := make([]string, nNames)
	for i := range names {
		b := make([]byte, nameLens[i])
		if _, err := io.ReadFull(rd, b); err != nil {
			return nil, err
		}
		names[i] = string(b)
	}

	var nTimes uint32
	if err := binary.Read(rd, order, &nTimes); err != nil {
		return nil, err
	}
	if nTimes > maxTimes {
		return nil, fmt.Errorf("The header claims %d times.", nTimes)
	}
	var times []float64
	if nTimes > 0 {
		times = make([]float64, nTimes)
		if err := binary.Read(rd, order, times); err != nil {
			return nil, err
		}
	}

	var nBlock int64
	if err := binary.Read(rd, order, &nBlock); err != nil {
		return nil, err
	}
	if nBlock < 0 {
		return nil, fmt.Errorf("The header claims a block of %d bytes.",
			nBlock)
	}
	block := make([]byte, nBlock)
	if _, err := io.ReadFull(rd, block); err != nil {
		return nil, err
	}
	raw, err := zstd.Decompress(nil, block)
	if err != nil {
		return nil, err
	}
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("The decompressed block has %d bytes, which "+
			"is not a whole number of float64s.", len(raw))
	}

	data := make([]float64, len(raw)/8)
	if err := binary.Read(bytes.NewReader(raw), order, data); err != nil {
		return nil, err
	}
	arr, err := grid.FromData(shape, data)
	if err != nil {
		return nil, fmt.Errorf("The .grd file's data does not match its "+
			"header: %w", err)
	}

	return &File{Names: names, Times: times, Array: arr}, nil
}

// WriteFile writes f to the named file, creating or truncating it.
func WriteFile(fname string, f *File) error {
	fp, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := Write(fp, f); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

// ReadFile reads a .grd file from disk.
func ReadFile(fname string) (*File, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return Read(fp)
}
