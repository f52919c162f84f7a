package splat

import (
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/arrowforge/gsplat/common"
	"github.com/Carmen-Shannon/automation/tools/worker"
)

// reservoirEntry pairs a candidate's original index with its Efraimidis–
// Spiraki key. Smaller keys win; the reservoir keeps the k smallest.
type reservoirEntry struct {
	index int
	key   float64
}

// Downsample applies deterministic weighted reservoir sampling to records,
// keeping at most maxSplats of them. The weight of a record is
// opacity * max(scale); records are assigned the key -log(U)/w for a
// per-record draw U seeded deterministically from fileSize so that two
// loads of the same file select the same subset. If len(records) is
// already <= maxSplats, records is returned unmodified and ok is false
// (no resampling occurred, so no common.ErrResourcePressure applies).
//
// Key computation is parallelized across a worker pool sized to
// runtime.NumCPU()-1; the reservoir selection itself is a cheap sequential partial sort.
func Downsample(records []GPURecord, maxSplats int, fileSize int64) (out []GPURecord, ok bool, err error) {
	if maxSplats <= 0 || len(records) <= maxSplats {
		return records, false, nil
	}

	keys := make([]float64, len(records))
	numWorkers := max(runtime.NumCPU()-1, 1)
	pool := worker.NewDynamicWorkerPool(numWorkers, 256, 1*time.Second)

	chunk := (len(records) + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunk
		if start >= len(records) {
			break
		}
		end := min(start+chunk, len(records))

		wg.Add(1)
		seed := fileSize + int64(w)*2654435761
		id := w
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				rng := rand.New(rand.NewSource(seed))
				for i := start; i < end; i++ {
					rec := records[i]
					maxScale := rec.Scale[0]
					if rec.Scale[1] > maxScale {
						maxScale = rec.Scale[1]
					}
					if rec.Scale[2] > maxScale {
						maxScale = rec.Scale[2]
					}
					weight := rec.Opacity * maxScale
					if weight <= 0 {
						keys[i] = math.Inf(1)
						continue
					}
					u := rng.Float64()
					for u <= 0 {
						u = rng.Float64()
					}
					keys[i] = -math.Log(u) / float64(weight)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	entries := make([]reservoirEntry, len(records))
	for i, k := range keys {
		entries[i] = reservoirEntry{index: i, key: k}
	}
	sort.Slice(entries, func(a, b int) bool {
		return entries[a].key < entries[b].key
	})
	entries = entries[:maxSplats]

	selected := make([]int, len(entries))
	for i, e := range entries {
		selected[i] = e.index
	}
	sort.Ints(selected)

	out = make([]GPURecord, len(selected))
	for i, idx := range selected {
		out[i] = records[idx]
	}
	return out, true, common.ErrResourcePressure
}
