// Package report renders sort results for people and for tools.
//
// Text output lists the sorted records, one per line, followed by the
// counters of both phases. JSON output carries the same content as one
// document encoded with a selectable codec. Either can be compressed.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/CiroJunio/provao/codec"
	"github.com/CiroJunio/provao/metrics"
	"github.com/CiroJunio/provao/record"
)

// Format selects the rendering.
type Format int

const (
	// Text is the human-readable listing.
	Text Format = iota
	// JSON is a single JSON document.
	JSON
)

// ParseFormat accepts "text" and "json". For JSON it also returns the codec
// named by the format ("json" or "go-json").
func ParseFormat(s string) (Format, codec.Codec, error) {
	switch s := strings.ToLower(s); s {
	case "", "text":
		return Text, nil, nil
	default:
		c, ok := codec.ByName(s)
		if !ok {
			return 0, nil, fmt.Errorf("report: unknown format %q", s)
		}
		return JSON, c, nil
	}
}

// Report is the rendered outcome of one sort invocation.
type Report struct {
	Method  string          `json:"method"`
	Order   string          `json:"order"`
	Count   int64           `json:"count"`
	Output  string          `json:"output,omitempty"`
	Metrics metrics.Metrics `json:"metrics"`
	Records []record.Record `json:"records,omitempty"`
}

// Write renders rep to w. c is the JSON codec and defaults to codec.Default.
func Write(w io.Writer, rep Report, f Format, c codec.Codec) error {
	if f == JSON {
		return WriteJSON(w, rep, c)
	}
	return WriteText(w, rep)
}

// WriteJSON writes rep as one JSON document followed by a newline.
func WriteJSON(w io.Writer, rep Report, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}
	data, err := c.Marshal(rep)
	if err != nil {
		return fmt.Errorf("report: encode %s: %w", c.Name(), err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// WriteText writes the record listing and the phase counters.
func WriteText(w io.Writer, rep Report) error {
	bw := bufio.NewWriter(w)

	if len(rep.Records) > 0 {
		fmt.Fprintf(bw, "Records sorted by score (%s):\n", rep.Order)
		for _, r := range rep.Records {
			FormatRecord(bw, r)
		}
	}
	if rep.Output != "" {
		fmt.Fprintf(bw, "\nSorted file: %s\n", rep.Output)
	}

	fmt.Fprintf(bw, "\nMetrics for %s with %d records, order %s:\n", rep.Method, rep.Count, rep.Order)
	writePhase(bw, "Pre-processing", rep.Metrics.Pre)
	writePhase(bw, "Post-processing", rep.Metrics.Post)

	return bw.Flush()
}

// FormatRecord writes one fixed-width record line.
func FormatRecord(w io.Writer, r record.Record) {
	fmt.Fprintf(w, "ID: %08d, Score: %5.1f, Region: %2s, City: %-50s, Course: %-30s\n",
		r.ID, r.Score, r.Region, r.City, r.Course)
}

func writePhase(w io.Writer, title string, c metrics.Counters) {
	fmt.Fprintf(w, "\n%s:\n", title)
	fmt.Fprintf(w, "Reads: %d\n", c.Reads)
	fmt.Fprintf(w, "Writes: %d\n", c.Writes)
	fmt.Fprintf(w, "Comparisons: %d\n", c.Comparisons)
	fmt.Fprintf(w, "Elapsed: %.6f seconds\n", c.Elapsed.Seconds())
}
