package testutil

import (
	"fmt"
	"math/rand"
	"slices"
	"sync"

	"github.com/CiroJunio/provao/record"
)

var (
	regions = []string{"SP", "RJ", "MG", "BA", "RS", "PE", "CE", "PR"}
	cities  = []string{"SAO PAULO", "RIO DE JANEIRO", "BELO HORIZONTE", "SALVADOR", "PORTO ALEGRE", "RECIFE"}
	courses = []string{"DIREITO", "MEDICINA", "ENGENHARIA CIVIL", "ADMINISTRACAO", "LETRAS", "MATEMATICA"}
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Records generates n records with scores in [0, 100] at one decimal, so
// equal scores are common for larger n. IDs start at 1.
func (r *RNG) Records(n int) []record.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs := make([]record.Record, n)
	for i := range recs {
		recs[i] = record.Record{
			ID:     int64(i + 1),
			Score:  float32(r.rand.Intn(1001)) / 10,
			Region: regions[r.rand.Intn(len(regions))],
			City:   cities[r.rand.Intn(len(cities))],
			Course: courses[r.rand.Intn(len(courses))],
		}
	}
	return recs
}

// Scores generates n records whose scores are drawn from [0, levels).
// Small levels force heavy ties.
func (r *RNG) Scores(n, levels int) []record.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs := make([]record.Record, n)
	for i := range recs {
		recs[i] = newRecord(i, float32(r.rand.Intn(levels)))
	}
	return recs
}

// Ascending returns n records with distinct increasing scores.
func Ascending(n int) []record.Record {
	recs := make([]record.Record, n)
	for i := range recs {
		recs[i] = newRecord(i, float32(i)/2)
	}
	return recs
}

// Uniform returns n records that all carry score.
func Uniform(n int, score float32) []record.Record {
	recs := make([]record.Record, n)
	for i := range recs {
		recs[i] = newRecord(i, score)
	}
	return recs
}

func newRecord(i int, score float32) record.Record {
	return record.Record{
		ID:     int64(i + 1),
		Score:  score,
		Region: regions[i%len(regions)],
		City:   cities[i%len(cities)],
		Course: courses[i%len(courses)],
	}
}

// Encode returns the binary export of recs.
func Encode(recs []record.Record) []byte {
	buf := make([]byte, 0, len(recs)*record.Size)
	for _, rec := range recs {
		buf = rec.Append(buf)
	}
	return buf
}

// StableOrder returns the positions of recs stably sorted by score in d.
func StableOrder(recs []record.Record, d record.Direction) []int64 {
	perm := make([]int64, len(recs))
	for i := range perm {
		perm[i] = int64(i)
	}
	slices.SortStableFunc(perm, func(a, b int64) int {
		return record.CompareScores(d, recs[a].Score, recs[b].Score)
	})
	return perm
}

// StableSorted returns recs stably sorted by score in d.
func StableSorted(recs []record.Record, d record.Direction) []record.Record {
	return Apply(StableOrder(recs, d), recs)
}

// Apply returns recs reordered by perm.
func Apply(perm []int64, recs []record.Record) []record.Record {
	out := make([]record.Record, len(perm))
	for i, p := range perm {
		out[i] = recs[p]
	}
	return out
}

// IsSorted reports whether recs are ordered by score in d.
func IsSorted(recs []record.Record, d record.Direction) bool {
	for i := 1; i < len(recs); i++ {
		if record.CompareScores(d, recs[i-1].Score, recs[i].Score) > 0 {
			return false
		}
	}
	return true
}

// Keys returns the KeyRefs of recs.
func Keys(recs []record.Record) []record.KeyRef {
	keys := make([]record.KeyRef, len(recs))
	for i, rec := range recs {
		keys[i] = rec.Key(int64(i))
	}
	return keys
}

// Name returns a readable subtest name for a size and direction.
func Name(n int, d record.Direction) string {
	return fmt.Sprintf("n=%d/%s", n, d)
}
