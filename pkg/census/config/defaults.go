// Package config provides configuration management for the census
// dataset generator.
package config

// Default configuration values for census.
const (
	// DefaultOutput is where the dataset is written when no path is
	// given. "-" means standard output.
	DefaultOutput = "-"

	// DefaultMaxDepth is how many directory levels below each root are
	// visited. The shipped behavior is exactly one level: immediate
	// children only, no descent into subdirectories.
	DefaultMaxDepth = 1

	// DefaultPreviewBytes is the content preview byte budget per file.
	DefaultPreviewBytes = 1024

	// DefaultChecksum is the digest algorithm for the checksum column.
	DefaultChecksum = "sha256"

	// DefaultContent controls whether the content column is populated.
	DefaultContent = true

	// DefaultConfigDirName is the directory under the XDG config home
	// that holds the config file.
	DefaultConfigDirName = "census"
)
