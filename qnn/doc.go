// Package qnn holds the process-wide configuration of the quantized neural
// network operators.
//
// Initialize probes the host once, selects the kernel for every operator
// slot and fixes the tile geometry the operators use to partition work. The
// resulting Parameters are immutable and shared by all operators; they may
// be read concurrently without synchronization.
//
// Example:
//
//	params, err := qnn.Initialize()
//	if err != nil {
//		return err
//	}
//	op, err := gavgpool.New(params, channels)
package qnn
