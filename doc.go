// Package slotmatch counts, for every event, the users able to attend it.
//
// Users and events are described by 336-bit slot masks, one bit per
// half-hour slot of a week. A user matches an event when the user's
// capability mask covers every slot of the event's requirement mask.
//
// # Quick Start
//
//	users := [][]byte{...}             // 42-byte capability masks
//	events := []source.Event{...}      // id + 42-byte requirement mask
//
//	res, err := slotmatch.Match(ctx, slotmatch.SIMD256, source.NewMemory(users, events))
//	if err != nil {
//	    return err
//	}
//	_ = res.WriteReport(os.Stdout)     // ".<id>:<count>" per event, in id order
//
// Datasets stored as mask tables are read through a blob store:
//
//	store, _ := blobstore.NewLocalStore("./data")
//	res, err := slotmatch.Match(ctx, slotmatch.Multicore, source.NewTable(store, ""),
//	    slotmatch.WithPages(10))
//
// # Strategies
//
// Every strategy returns identical counts; they differ only in how the
// work is done:
//
//   - Scalar: byte-wise superset test
//   - Word64: five 64-bit words plus a 16-bit tail
//   - SIMD128, SIMD256: portable 128/256-bit lanes
//   - Multicore: equal event pages matched concurrently, one source
//     connection per page
//   - GPU: pairwise kernel and block reduction on the emulated device
//   - Indexed: per-slot roaring bitmaps of users
//   - Auto: the widest lane strategy the CPU supports
//
// Select a strategy once, up front. ParseStrategy rejects unknown names
// with a ConfigurationError before any data is read.
package slotmatch
