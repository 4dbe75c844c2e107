package snapshot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// TextConfig contains the information needed to parse delimited text tables,
// e.g. the CSV files written by most visualization tools' "save data" option.
type TextConfig struct {
	Separator byte // Character used to separate columns. ' ' means any whitespace.
	Comment   byte // Character used to start comments.
	SkipLines int  // Number of lines to skip before the header row.
	// PointColumns are the names of the header columns that hold the x, y,
	// and z coordinates of each sample.
	PointColumns [3]string
}

// DefaultTextConfig is a TextConfig which reads comma-separated tables with
// a header row and x, y, z coordinate columns.
var DefaultTextConfig = TextConfig{
	Separator:    ',',
	Comment:      '#',
	SkipLines:    0,
	PointColumns: [3]string{"x", "y", "z"},
}

// vectorSuffixes are the column suffixes that mark the components of a
// vector field.
var vectorSuffixes = [3]string{"_X", "_Y", "_Z"}

// ReadTextFrame parses a table with a header row into a MemoryFrame. The
// columns named in config.PointColumns become the points and every other
// column becomes a scalar field. Whenever all three of name_X, name_Y, and
// name_Z are present, a vector field called name is added as well.
func ReadTextFrame(rd io.Reader, config ...TextConfig) (*MemoryFrame, error) {
	c := DefaultTextConfig
	if len(config) > 0 {
		c = config[0]
	}

	header, rows, err := readTextRows(rd, c)
	if err != nil {
		return nil, err
	}

	cols := map[string]int{}
	for i, name := range header {
		if _, ok := cols[name]; ok {
			return nil, fmt.Errorf("The column '%s' occurs more than once "+
				"in the header.", name)
		}
		cols[name] = i
	}

	pointIdx := [3]int{}
	for dim, name := range c.PointColumns {
		idx, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("The header %s does not contain the "+
				"coordinate column '%s'.", header, name)
		}
		pointIdx[dim] = idx
	}

	points := make([][3]float64, len(rows))
	for i := range rows {
		for dim := 0; dim < 3; dim++ {
			points[i][dim] = rows[i][pointIdx[dim]]
		}
	}

	f := NewMemoryFrame(points)
	for j, name := range header {
		if isPointColumn(name, c.PointColumns) {
			continue
		}
		x := make([]float64, len(rows))
		for i := range rows {
			x[i] = rows[i][j]
		}
		f.AddScalar(name, x)
	}

	for j, name := range header {
		if !strings.HasSuffix(name, vectorSuffixes[0]) {
			continue
		}
		base := strings.TrimSuffix(name, vectorSuffixes[0])
		yIdx, okY := cols[base+vectorSuffixes[1]]
		zIdx, okZ := cols[base+vectorSuffixes[2]]
		if !okY || !okZ {
			continue
		}
		v := make([][3]float64, len(rows))
		for i := range rows {
			v[i] = [3]float64{rows[i][j], rows[i][yIdx], rows[i][zIdx]}
		}
		f.AddVector(base, v)
	}

	return f, nil
}

func isPointColumn(name string, pointColumns [3]string) bool {
	for _, p := range pointColumns {
		if name == p {
			return true
		}
	}
	return false
}

// readTextRows splits a table into its header and its numeric rows.
func readTextRows(rd io.Reader, c TextConfig) ([]string, [][]float64, error) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	var header []string
	rows := [][]float64{}
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum <= c.SkipLines {
			continue
		}

		line := uncomment(scanner.Text(), c.Comment)
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		tok := splitLine(line, c.Separator)

		if header == nil {
			header = tok
			for i := range header {
				header[i] = strings.Trim(header[i], "\"")
			}
			continue
		}

		if len(tok) != len(header) {
			return nil, nil, fmt.Errorf("Line %d has %d columns, but the "+
				"header has %d.", lineNum, len(tok), len(header))
		}
		row := make([]float64, len(tok))
		for i := range tok {
			x, err := strconv.ParseFloat(tok[i], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("Column '%s' on line %d, '%s', "+
					"is not a number.", header[i], lineNum, tok[i])
			}
			row[i] = x
		}
		rows = append(rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, err
	} else if header == nil {
		return nil, nil, fmt.Errorf("The table does not have a header row.")
	}

	return header, rows, nil
}

// uncomment removes everything after the comment character.
func uncomment(line string, comment byte) string {
	if idx := strings.IndexByte(line, comment); idx >= 0 {
		return line[:idx]
	}
	return line
}

// splitLine splits a line into trimmed tokens.
func splitLine(line string, sep byte) []string {
	if sep == ' ' {
		return strings.Fields(line)
	}
	tok := strings.Split(line, string(sep))
	for i := range tok {
		tok[i] = strings.TrimSpace(tok[i])
	}
	return tok
}

// Text is a Source backed by one text table per time coordinate. Every call
// to At re-reads the corresponding file. See the Source interface for method
// documentation.
type Text struct {
	fileNames []string
	times     []float64
	config    TextConfig
	current   *MemoryFrame
}

var _ Source = &Text{}

// OpenText creates a Text source. times gives the time coordinate of each
// file; if it is nil, file i is assigned time i. The first file is read
// immediately and becomes the current frame.
func OpenText(
	fileNames []string, times []float64, config ...TextConfig,
) (*Text, error) {
	if len(fileNames) == 0 {
		return nil, fmt.Errorf("No text files were given.")
	}

	if times == nil {
		times = make([]float64, len(fileNames))
		for i := range times {
			times[i] = float64(i)
		}
	} else if len(times) != len(fileNames) {
		return nil, fmt.Errorf("%d time coordinates were given for %d files.",
			len(times), len(fileNames))
	}

	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("Time coordinates must be strictly "+
				"increasing, but times[%d] = %g follows times[%d] = %g.",
				i, times[i], i-1, times[i-1])
		}
	}

	t := &Text{fileNames: fileNames, times: times, config: DefaultTextConfig}
	if len(config) > 0 {
		t.config = config[0]
	}

	var err error
	t.current, err = t.readFile(0)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Text) readFile(i int) (*MemoryFrame, error) {
	f, err := os.Open(t.fileNames[i])
	if err != nil {
		return nil, fmt.Errorf("The file %s cannot be opened. The system "+
			"error is: \"%s\"", t.fileNames[i], err.Error())
	}
	defer f.Close()

	frame, err := ReadTextFrame(f, t.config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.fileNames[i], err)
	}
	return frame, nil
}

func (t *Text) Points() [][3]float64 { return t.current.Points() }

func (t *Text) Scalar(name string) ([]float64, error) {
	return t.current.Scalar(name)
}

func (t *Text) Vector(name string) ([][3]float64, error) {
	return t.current.Vector(name)
}

func (t *Text) Times() []float64 {
	out := make([]float64, len(t.times))
	copy(out, t.times)
	return out
}

func (t *Text) At(ctx context.Context, time float64) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.readFile(snapIndex(t.times, time))
}
