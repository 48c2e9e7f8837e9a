// Package provao sorts exported examination records by score under a fixed
// memory budget.
//
// Two external sorting methods are available:
//
//   - BalancedMerge: replacement selection writes sorted runs of KeyRefs over
//     two tapes, then a balanced two-way merge produces the final order of
//     record positions. Full records are read once at the end.
//   - QuickSort: the requested records are staged into a working file that is
//     partitioned around sampled pivots and merged back, never holding more
//     than the threshold in memory.
//
// # Quick Start
//
//	work, _ := recordstore.NewLocalStore("./data")
//	s, _ := provao.New(work, provao.WithMemory(20), provao.WithThreshold(15))
//
//	res, err := s.Sort(ctx, provao.Request{
//	    Method: provao.BalancedMerge,
//	    Source: "registros.bin",
//	    Count:  1000,
//	    Order:  record.Descending,
//	    Emit:   true,
//	})
//	for _, r := range res.Records {
//	    fmt.Println(r.ID, r.Score)
//	}
//
// # Remote Sources
//
// The binary export can live in object storage:
//
//	store := minioblob.NewStore(client, "provao", "exports/")
//	s, _ := provao.New(work, provao.WithSource(store))
//
// # Metrics
//
// Every Result carries the reads, writes, comparisons and elapsed time of its
// pre-processing phase (run generation or staging) and its post-processing
// phase (merging or partitioning). Register a MetricsCollector to aggregate
// them across invocations.
package provao
