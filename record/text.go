package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidLine is returned for lines that do not carry a usable record.
var ErrInvalidLine = errors.New("record: invalid export line")

// Column layout of the fixed-width text export.
const (
	textIDEnd      = 8
	textScoreStart = 9
	textScoreEnd   = 14
	textRegion     = 15
	textCity       = 18
	textCourse     = 69
)

// ParseText parses one line of the fixed-width text export.
//
// Lines with a blank or zero identifier yield ErrInvalidLine; loaders skip them.
func ParseText(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")
	idField := strings.TrimSpace(column(line, 0, textIDEnd))
	id, err := strconv.ParseInt(idField, 10, 64)
	if err != nil || id == 0 {
		return Record{}, fmt.Errorf("%w: identifier %q", ErrInvalidLine, idField)
	}

	var score float32
	if s := strings.TrimSpace(column(line, textScoreStart, textScoreEnd)); s != "" {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Record{}, fmt.Errorf("%w: score %q", ErrInvalidLine, s)
		}
		score = float32(f)
	}

	return Record{
		ID:     id,
		Score:  score,
		Region: column(line, textRegion, textRegion+RegionLen),
		City:   strings.TrimSpace(column(line, textCity, textCity+CityLen)),
		Course: strings.TrimSpace(column(line, textCourse, textCourse+CourseLen)),
	}, nil
}

func column(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}
