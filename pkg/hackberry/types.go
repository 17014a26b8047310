package hackberry

// Limits defines resource limits for frame parsing.
//
// Incoming frames are produced by an untrusted peer: without limits a single
// declared content-length can force the buffer to grow arbitrarily before the
// frame is ever recognized as complete. Limits are enforced before the buffer
// is asked to hold the offending bytes.
type Limits struct {
	// MaxHeaderBytes is the maximum size of the header block in bytes,
	// including the terminating blank line. A value of 0 means no limit.
	MaxHeaderBytes int

	// MaxHeaderCount is the maximum number of header lines per frame.
	// A value of 0 means no limit.
	MaxHeaderCount int

	// MaxBodyBytes is the maximum declared content-length.
	// A value of 0 means no limit.
	MaxBodyBytes int64

	// MaxDecodedBodyBytes is the maximum size a content-encoded body may
	// decode to. Enforced by the content package, not the parser.
	// A value of 0 means no limit.
	MaxDecodedBodyBytes int64
}

// DefaultLimits are the default resource limits.
// These are generous limits suitable for most use cases.
var DefaultLimits = Limits{
	MaxHeaderBytes:      1 * 1024 * 1024,   // 1 MB
	MaxHeaderCount:      256,
	MaxBodyBytes:        64 * 1024 * 1024,  // 64 MB
	MaxDecodedBodyBytes: 256 * 1024 * 1024, // 256 MB
}

// SecureLimits are conservative limits for untrusted input.
var SecureLimits = Limits{
	MaxHeaderBytes:      16 * 1024,        // 16 KB
	MaxHeaderCount:      64,
	MaxBodyBytes:        1 * 1024 * 1024,  // 1 MB
	MaxDecodedBodyBytes: 10 * 1024 * 1024, // 10 MB
}

// NoLimits disables all resource limits.
// Use with caution - only for trusted input.
var NoLimits = Limits{}

// Options configures parsing and serialization behavior.
type Options struct {
	// Limits specifies resource limits.
	Limits Limits

	// StrictHeaderNames rejects header names containing characters outside
	// ASCII letters, digits, and hyphens.
	StrictHeaderNames bool
}

// DefaultOptions are the default parsing options.
var DefaultOptions = Options{
	Limits: DefaultLimits,
}

// SecureOptions are conservative options for untrusted input.
var SecureOptions = Options{
	Limits:            SecureLimits,
	StrictHeaderNames: true,
}

// Version information, set by ldflags at build time.
var (
	// Version is the semantic version of the library.
	Version = "dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// VersionInfo returns a formatted version string.
func VersionInfo() string {
	return Version + " (" + GitCommit + ", " + BuildDate + ")"
}
