// Package installer orchestrates installing a parsed feature image into a
// kflash.Kernel: allocate a slot, stream every row through the copy
// engine, optionally verify by reading back, and report progress through
// phases. It is the feature-lifecycle equivalent of driving a bootloader
// programming session.
package installer
