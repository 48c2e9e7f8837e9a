package record

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
)

// Field widths of the binary layout.
const (
	RegionLen = 2
	CityLen   = 50
	CourseLen = 30

	idOff     = 0
	scoreOff  = 8
	regionOff = 12
	cityOff   = regionOff + RegionLen
	courseOff = cityOff + CityLen

	// Size is the encoded size of one record in bytes.
	Size = courseOff + CourseLen
)

// ErrShortRecord is returned when a buffer is smaller than Size.
var ErrShortRecord = errors.New("record: short buffer")

// Record is one exam result.
type Record struct {
	ID     int64   `json:"id"`
	Score  float32 `json:"score"`
	Region string  `json:"region"`
	City   string  `json:"city"`
	Course string  `json:"course"`
}

// Key returns the KeyRef of r at position pos.
func (r Record) Key(pos int64) KeyRef {
	return KeyRef{Score: r.Score, Pos: pos}
}

// MarshalTo encodes r into dst, which must hold at least Size bytes.
// Text fields longer than their width are truncated.
func (r Record) MarshalTo(dst []byte) error {
	if len(dst) < Size {
		return ErrShortRecord
	}
	binary.LittleEndian.PutUint64(dst[idOff:], uint64(r.ID))
	binary.LittleEndian.PutUint32(dst[scoreOff:], math.Float32bits(r.Score))
	putPadded(dst[regionOff:regionOff+RegionLen], r.Region)
	putPadded(dst[cityOff:cityOff+CityLen], r.City)
	putPadded(dst[courseOff:courseOff+CourseLen], r.Course)
	return nil
}

// Append appends the encoding of r to dst.
func (r Record) Append(dst []byte) []byte {
	n := len(dst)
	dst = append(dst, make([]byte, Size)...)
	_ = r.MarshalTo(dst[n:])
	return dst
}

// Unmarshal decodes the first Size bytes of src.
func Unmarshal(src []byte) (Record, error) {
	if len(src) < Size {
		return Record{}, ErrShortRecord
	}
	return Record{
		ID:     int64(binary.LittleEndian.Uint64(src[idOff:])),
		Score:  ScoreOf(src),
		Region: trimPadded(src[regionOff : regionOff+RegionLen]),
		City:   trimPadded(src[cityOff : cityOff+CityLen]),
		Course: trimPadded(src[courseOff : courseOff+CourseLen]),
	}, nil
}

// ScoreOf decodes only the score of an encoded record.
func ScoreOf(src []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(src[scoreOff:]))
}

func putPadded(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = ' '
	}
}

func trimPadded(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}
