// Package worker provides a worker pool for parsing independent ER7
// messages in parallel.
//
// The core codec parses batches sequentially; messages inside a batch
// are independent of each other, so parallelizing across them is left to
// the caller, and this pool is that opt-in.
//
// Example usage:
//
//	pool := worker.NewPool(nil, 4) // nil uses hl7v2.ParseMessage
//	defer pool.Close()
//
//	for i, raw := range rawMessages {
//	    pool.Submit(worker.Job{ID: strconv.Itoa(i), Raw: raw})
//	}
//
//	for result := range pool.Results() {
//	    if result.Error != nil {
//	        // Handle parse failure
//	    }
//	    // Process result.Message
//	}
package worker
