package pipeline

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
)

// NumPy .npy version 1.0, little-endian float64, C order. Enough for
// the window matrices this pipeline exchanges with training code.

var npyMagic = []byte("\x93NUMPY\x01\x00")

var npyShapeRe = regexp.MustCompile(`'shape':\s*\((\d+),\s*(\d+)\)`)

// WriteNPY writes a 2-D float64 matrix in .npy format. Rows must be
// rectangular.
func WriteNPY(path string, rows [][]float64) error {
	r := len(rows)
	c := 0
	if r > 0 {
		c = len(rows[0])
	}
	for _, row := range rows {
		if len(row) != c {
			return fmt.Errorf("ragged matrix: row has %d columns, want %d", len(row), c)
		}
	}

	header := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%d, %d), }", r, c)
	// pad so the data section starts on a 64-byte boundary
	total := len(npyMagic) + 2 + len(header) + 1
	if pad := total % 64; pad != 0 {
		header += string(bytes.Repeat([]byte{' '}, 64-pad))
	}
	header += "\n"

	var buf bytes.Buffer
	buf.Write(npyMagic)
	binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	for _, row := range rows {
		for _, v := range row {
			binary.Write(&buf, binary.LittleEndian, math.Float64bits(v))
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadNPY reads a 2-D float64 .npy file written by WriteNPY
func ReadNPY(path string) ([][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < len(npyMagic)+2 || !bytes.Equal(data[:len(npyMagic)], npyMagic) {
		return nil, fmt.Errorf("%s: not a v1.0 .npy file", path)
	}

	headerLen := int(binary.LittleEndian.Uint16(data[len(npyMagic):]))
	bodyStart := len(npyMagic) + 2 + headerLen
	if bodyStart > len(data) {
		return nil, fmt.Errorf("%s: truncated header", path)
	}
	header := string(data[len(npyMagic)+2 : bodyStart])

	m := npyShapeRe.FindStringSubmatch(header)
	if m == nil {
		return nil, fmt.Errorf("%s: unsupported header %q", path, header)
	}
	r, _ := strconv.Atoi(m[1])
	c, _ := strconv.Atoi(m[2])

	body := data[bodyStart:]
	if len(body) < r*c*8 {
		return nil, fmt.Errorf("%s: truncated data section", path)
	}

	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			bits := binary.LittleEndian.Uint64(body[(i*c+j)*8:])
			rows[i][j] = math.Float64frombits(bits)
		}
	}
	return rows, nil
}
