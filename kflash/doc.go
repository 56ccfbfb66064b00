// Package kflash implements a flash-backed dynamic feature allocator: a
// small set of fixed-size slots in a reserved flash region, each holding a
// feature's ROM payload and a window into a shared RAM pool.
//
// A Kernel owns the on-flash slot table (the authoritative state) and two
// process-wide caches, feature count and the last allocated slot address,
// that it refreshes from the table rather than trusting across restarts.
// All operations run to completion on the caller's goroutine; a Kernel is
// not safe for concurrent use by multiple goroutines, mirroring the
// single-threaded, non-reentrant core it is modeled on.
//
// The underlying flash.Device toggles between two mutually exclusive
// modes, memory-mapped (plain reads) and programming (erase/program).
// Every exported Kernel method restores memory-mapped mode before
// returning, even on an error path.
package kflash
