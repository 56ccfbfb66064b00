package installer

// Config holds installer configuration.
type Config struct {
	ProgressCallback ProgressCallback
	Logger           Logger

	// ChunkSize is the maximum number of bytes sent through Kernel.CopyToROM
	// per call for a single row. Default is 256.
	ChunkSize int

	// VerifyAfterInstall enables reading every row back and comparing
	// against the source bytes after writing. Default is false.
	VerifyAfterInstall bool
}

func defaultConfig() Config {
	return Config{
		ChunkSize: 256,
	}
}

// Option is a functional option for configuring Install.
type Option func(*Config)

// WithProgressCallback sets a callback function to track install progress.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) { c.ProgressCallback = callback }
}

// WithLogger sets a logger for the install operation.
func WithLogger(logger Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithChunkSize sets the maximum number of bytes sent per CopyToROM call
// for a single row larger than the chunk size. Default is 256.
func WithChunkSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.ChunkSize = size
		}
	}
}

// WithVerifyAfterInstall enables or disables read-back verification after
// writing every row. Default is false.
func WithVerifyAfterInstall(verify bool) Option {
	return func(c *Config) { c.VerifyAfterInstall = verify }
}
