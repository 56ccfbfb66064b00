package installer

import "fmt"

// VerificationError indicates a row's readback didn't match the bytes
// that were written, surfaced when WithVerifyAfterInstall is set.
type VerificationError struct {
	Offset uint32
	Reason string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("installer: verification failed at offset 0x%08X: %s", e.Offset, e.Reason)
}
