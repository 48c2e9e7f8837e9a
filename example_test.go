package provao_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/CiroJunio/provao"
	"github.com/CiroJunio/provao/blobstore"
	"github.com/CiroJunio/provao/record"
	"github.com/CiroJunio/provao/recordstore"
)

func export() []byte {
	var buf []byte
	for _, r := range []record.Record{
		{ID: 1, Score: 72.5, Region: "PE", City: "RECIFE", Course: "DIREITO"},
		{ID: 2, Score: 88, Region: "SP", City: "CAMPINAS", Course: "MEDICINA"},
		{ID: 3, Score: 72.5, Region: "MG", City: "UBERLANDIA", Course: "LETRAS"},
		{ID: 4, Score: 91, Region: "RS", City: "PELOTAS", Course: "AGRONOMIA"},
	} {
		buf = r.Append(buf)
	}
	return buf
}

// Example_balancedMerge sorts an in-memory export by descending score.
// Equal scores keep their original order.
func Example_balancedMerge() {
	ctx := context.Background()

	src := blobstore.NewMemoryStore()
	if err := src.Put(ctx, "PROVAO.bin", export()); err != nil {
		log.Fatal(err)
	}

	s, err := provao.New(recordstore.NewMemoryStore(), provao.WithSource(src), provao.WithMemory(2))
	if err != nil {
		log.Fatal(err)
	}

	res, err := s.Sort(ctx, provao.Request{
		Method: provao.BalancedMerge,
		Source: "PROVAO.bin",
		Count:  4,
		Order:  record.Descending,
		Emit:   true,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Permutation)
	for _, r := range res.Records {
		fmt.Printf("%d %.1f %s\n", r.ID, r.Score, r.City)
	}
	// Output:
	// [3 1 0 2]
	// 4 91.0 PELOTAS
	// 2 88.0 CAMPINAS
	// 1 72.5 RECIFE
	// 3 72.5 UBERLANDIA
}

// Example_quickSort sorts a file on disk and keeps the sorted copy.
func Example_quickSort() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "provao-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	if err := blobstore.NewLocalStore(dir).Put(ctx, "PROVAO.bin", export()); err != nil {
		log.Fatal(err)
	}

	work, err := recordstore.NewLocalStore(dir)
	if err != nil {
		log.Fatal(err)
	}
	collector := &provao.BasicMetricsCollector{}
	s, err := provao.New(work, provao.WithThreshold(2), provao.WithMetricsCollector(collector))
	if err != nil {
		log.Fatal(err)
	}

	res, err := s.Sort(ctx, provao.Request{
		Method: provao.QuickSort,
		Source: "PROVAO.bin",
		Count:  4,
		Order:  record.Ascending,
		Output: "sorted.bin",
	})
	if err != nil {
		log.Fatal(err)
	}

	sorted, err := recordstore.ReadAll(work, res.Output)
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range sorted {
		fmt.Printf("%d %.1f\n", r.ID, r.Score)
	}
	fmt.Println(collector.GetStats().QuickSorts)
	// Output:
	// 1 72.5
	// 3 72.5
	// 2 88.0
	// 4 91.0
	// 1
}
