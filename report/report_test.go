package report

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CiroJunio/provao/codec"
	"github.com/CiroJunio/provao/metrics"
	"github.com/CiroJunio/provao/record"
)

func sample() Report {
	return Report{
		Method: "quicksort",
		Order:  "descending",
		Count:  2,
		Metrics: metrics.Metrics{
			Pre:  metrics.Counters{Reads: 2, Writes: 2},
			Post: metrics.Counters{Reads: 4, Writes: 4, Comparisons: 3, Elapsed: 1500 * time.Microsecond},
		},
		Records: []record.Record{
			{ID: 42, Score: 91.5, Region: "PE", City: "RECIFE", Course: "DIREITO"},
			{ID: 7, Score: 60, Region: "SP", City: "SAO PAULO", Course: "LETRAS"},
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sample()))
	out := buf.String()

	assert.Contains(t, out, "Records sorted by score (descending):")
	assert.Contains(t, out, "ID: 00000042, Score:  91.5, Region: PE, City: RECIFE")
	assert.Contains(t, out, "Metrics for quicksort with 2 records, order descending:")
	assert.Contains(t, out, "Comparisons: 3\n")
	assert.Contains(t, out, "Elapsed: 0.001500 seconds")
	assert.Less(t, strings.Index(out, "ID: 00000042"), strings.Index(out, "ID: 00000007"))
}

func TestWriteJSON(t *testing.T) {
	for _, name := range codec.Names() {
		t.Run(name, func(t *testing.T) {
			f, c, err := ParseFormat(name)
			require.NoError(t, err)
			require.Equal(t, JSON, f)

			var buf bytes.Buffer
			require.NoError(t, Write(&buf, sample(), f, c))

			var got Report
			require.NoError(t, codec.JSON{}.Unmarshal(buf.Bytes(), &got))
			assert.Equal(t, sample(), got)
		})
	}

	_, _, err := ParseFormat("yaml")
	assert.Error(t, err)
}

func TestCompression_RoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("ID: 00000042, Score:  91.5\n"), 200)

	for _, name := range []string{"none", "lz4", "zstd"} {
		t.Run(name, func(t *testing.T) {
			c, err := ParseCompression(name)
			require.NoError(t, err)
			assert.Equal(t, c, CompressionFor("report.txt"+c.Extension()))

			var buf bytes.Buffer
			w, err := NewWriter(&buf, c)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if c != CompressionNone {
				assert.Less(t, buf.Len(), len(payload))
			}

			r, err := NewReader(&buf, c)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, payload, got)
		})
	}

	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}
