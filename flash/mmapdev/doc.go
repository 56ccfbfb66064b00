// Package mmapdev provides a file-backed flash.Device so a feature
// storage region can persist across process restarts — something a
// flash.MemDevice cannot do.
//
// On linux and darwin the backing file is memory-mapped with
// golang.org/x/sys/unix.Mmap and flushed with unix.Msync after every
// mutating call, following the mapping lifecycle used by
// joshuapare/hivekit's hive.Open (mmap on open, munmap on close) and the
// msync-on-write discipline in hive/dirty. On other platforms the file is
// read fully into memory on open and written back with WriteAt after every
// mutation, mirroring hivekit's loader_other.go fallback.
//
// Either way, Device enforces the same memory-mapped/programming mode
// discipline as flash.MemDevice: EraseSubsector and ProgramPage fail
// outside programming mode, Read fails outside memory-mapped mode.
package mmapdev
