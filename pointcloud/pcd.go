package pointcloud

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// PCDType is the data section format of a pcd file.
type PCDType int

const (
	// PCDAscii writes the data section as ascii rows.
	PCDAscii PCDType = 0
	// PCDBinary writes the data section as packed little-endian binary.
	PCDBinary PCDType = 1
)

func colorToPCDInt(c color.NRGBA) int {
	x := 0
	x |= int(c.R) << 16
	x |= int(c.G) << 8
	x |= int(c.B)
	return x
}

// ToPCD writes the cloud to out in PCD format. Point positions are in
// millimeters and are written in meters, matching common viewer defaults.
func ToPCD(cloud *PointCloud, out io.Writer, outputType PCDType) error {
	var err error
	_, err = fmt.Fprintf(out, "VERSION .7\n")
	if err != nil {
		return err
	}
	if cloud.MetaData().HasColor {
		_, err = fmt.Fprintf(out, "FIELDS x y z rgb\n"+
			"SIZE 4 4 4 4\n"+
			"TYPE F F F I\n"+
			"COUNT 1 1 1 1\n")
	} else {
		_, err = fmt.Fprintf(out, "FIELDS x y z\n"+
			"SIZE 4 4 4\n"+
			"TYPE F F F\n"+
			"COUNT 1 1 1\n")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "WIDTH %d\n"+
		"HEIGHT %d\n"+
		"VIEWPOINT 0 0 0 1 0 0 0\n"+
		"POINTS %d\n",
		cloud.Size(), 1, cloud.Size())
	if err != nil {
		return err
	}

	switch outputType {
	case PCDAscii:
		_, err = fmt.Fprintf(out, "DATA ascii\n")
	case PCDBinary:
		_, err = fmt.Fprintf(out, "DATA binary\n")
	default:
		return errors.Errorf("unknown pcd type %d", outputType)
	}
	if err != nil {
		return err
	}
	return writePCDData(cloud, out, outputType)
}

func writePCDData(cloud *PointCloud, out io.Writer, pcdtype PCDType) error {
	hasColor := cloud.MetaData().HasColor
	var err error
	cloud.Iterate(func(pos r3.Vector, c color.NRGBA, _ bool) bool {
		x := pos.X / 1000.
		y := pos.Y / 1000.
		z := pos.Z / 1000.
		switch {
		case hasColor && pcdtype == PCDBinary:
			buf := make([]byte, 16)
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(x)))
			binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(y)))
			binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(z)))
			binary.LittleEndian.PutUint32(buf[12:], uint32(colorToPCDInt(c)))
			_, err = out.Write(buf)
		case hasColor:
			_, err = fmt.Fprintf(out, "%f %f %f %d\n", x, y, z, colorToPCDInt(c))
		case pcdtype == PCDBinary:
			buf := make([]byte, 12)
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(x)))
			binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(y)))
			binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(float32(z)))
			_, err = out.Write(buf)
		default:
			_, err = fmt.Fprintf(out, "%f %f %f\n", x, y, z)
		}
		return err == nil
	})
	return err
}

// WriteToPCDFile writes the cloud to the named file.
func WriteToPCDFile(cloud *PointCloud, fn string, outputType PCDType) (err error) {
	//nolint:gosec
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	out := bufio.NewWriter(f)
	if err := ToPCD(cloud, out, outputType); err != nil {
		return err
	}
	return out.Flush()
}
