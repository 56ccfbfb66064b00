// Package kfimage reads the line-oriented, hex-encoded feature-image file
// format consumed by the installer package: a header line declaring the
// feature's total ROM and RAM footprint, followed by one row per
// contiguous chunk of ROM payload bytes. Rows carry their own byte
// offset and need not be contiguous or ordered, mirroring the streaming
// copy engine's tolerance for arbitrary-sized, nearly-contiguous writes.
package kfimage
