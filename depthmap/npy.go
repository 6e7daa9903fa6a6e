package depthmap

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// NPY v1.0 serialization of a depth map: dtype <f4, C order, shape (H, W).
// This is the interchange format for raw depth frames in a capture session;
// the float bit patterns round trip exactly, including NaN and Inf
// sentinels.

var npyMagic = []byte("\x93NUMPY")

const npyHeaderAlign = 64

// WriteNPY writes the depth map to w in NPY v1.0 format.
func (dm *DepthMap) WriteNPY(w io.Writer) error {
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }", dm.height, dm.width)
	// pad with spaces so the data section starts on a 64 byte boundary
	total := len(npyMagic) + 2 + 2 + len(header) + 1
	if rem := total % npyHeaderAlign; rem != 0 {
		header += strings.Repeat(" ", npyHeaderAlign-rem)
	}
	header += "\n"

	if _, err := w.Write(npyMagic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{1, 0}); err != nil {
		return err
	}
	lenBuf := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenBuf, uint16(len(header)))
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	buf := make([]byte, 4)
	for _, v := range dm.data {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// WriteNPYFile writes the depth map to the named file.
func (dm *DepthMap) WriteNPYFile(fn string) error {
	//nolint:gosec
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	out := bufio.NewWriter(f)
	if err := dm.WriteNPY(out); err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// ReadNPY reads an NPY v1.0 encoded float32 2D array from r.
func ReadNPY(r io.Reader) (*DepthMap, error) {
	in := bufio.NewReader(r)

	magic := make([]byte, len(npyMagic))
	if _, err := io.ReadFull(in, magic); err != nil {
		return nil, errors.Wrap(err, "reading npy magic")
	}
	if string(magic) != string(npyMagic) {
		return nil, errors.Errorf("not an npy file, magic was %q", magic)
	}
	version := make([]byte, 2)
	if _, err := io.ReadFull(in, version); err != nil {
		return nil, errors.Wrap(err, "reading npy version")
	}
	if version[0] != 1 {
		return nil, errors.Errorf("unsupported npy version %d.%d", version[0], version[1])
	}
	lenBuf := make([]byte, 2)
	if _, err := io.ReadFull(in, lenBuf); err != nil {
		return nil, errors.Wrap(err, "reading npy header length")
	}
	headerBuf := make([]byte, binary.LittleEndian.Uint16(lenBuf))
	if _, err := io.ReadFull(in, headerBuf); err != nil {
		return nil, errors.Wrap(err, "reading npy header")
	}

	height, width, order, err := parseNPYHeader(string(headerBuf))
	if err != nil {
		return nil, err
	}

	dm := NewEmptyDepthMap(width, height)
	buf := make([]byte, 4)
	for i := range dm.data {
		if _, err := io.ReadFull(in, buf); err != nil {
			return nil, errors.Wrapf(err, "reading npy data at element %d", i)
		}
		dm.data[i] = math.Float32frombits(order.Uint32(buf))
	}
	return dm, nil
}

// ReadNPYFile reads a depth map from the named NPY file.
func ReadNPYFile(fn string) (*DepthMap, error) {
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)
	return ReadNPY(f)
}

func headerField(header, key string) (string, error) {
	idx := strings.Index(header, "'"+key+"':")
	if idx < 0 {
		return "", errors.Errorf("npy header missing %q: %s", key, header)
	}
	rest := strings.TrimSpace(header[idx+len(key)+3:])
	end := strings.IndexAny(rest, ",}")
	if key == "shape" {
		// the value itself contains commas
		end = strings.Index(rest, ")")
		if end >= 0 {
			end++
		}
	}
	if end < 0 {
		return "", errors.Errorf("malformed npy header: %s", header)
	}
	return strings.TrimSpace(rest[:end]), nil
}

func parseNPYHeader(header string) (height, width int, byteOrder binary.ByteOrder, err error) {
	descr, err := headerField(header, "descr")
	if err != nil {
		return 0, 0, nil, err
	}
	switch descr {
	case "'<f4'":
		byteOrder = binary.LittleEndian
	case "'>f4'":
		byteOrder = binary.BigEndian
	default:
		return 0, 0, nil, errors.Errorf("only float32 ('<f4' or '>f4') depth arrays are supported, not %s", descr)
	}

	order, err := headerField(header, "fortran_order")
	if err != nil {
		return 0, 0, nil, err
	}
	if order != "False" {
		return 0, 0, nil, errors.New("fortran order npy arrays are not supported")
	}

	shape, err := headerField(header, "shape")
	if err != nil {
		return 0, 0, nil, err
	}
	shape = strings.Trim(shape, "()")
	parts := strings.Split(shape, ",")
	dims := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, nil, errors.Wrapf(err, "bad npy shape %q", shape)
		}
		dims = append(dims, d)
	}
	if len(dims) != 2 {
		return 0, 0, nil, errors.Errorf("expected a 2D depth array, got shape %q", shape)
	}
	if dims[0] <= 0 || dims[0] >= 100000 || dims[1] <= 0 || dims[1] >= 100000 {
		return 0, 0, nil, errors.Errorf("bad width or height for depth array %v %v", dims[1], dims[0])
	}
	return dims[0], dims[1], byteOrder, nil
}
