package constants

import "os"

const (
	// DefaultFilePermissions sets the default permissions for regular files: (rw-r--r--).
	// Owner: read and write;
	// Group: read;
	// Others: read.
	DefaultFilePermissions os.FileMode = 0o644

	// DefaultFolderPermissions sets the default permissions for regular folders: (rwxr-xr-x).
	// Owner: read, write, and execute;
	// Group: read and execute;
	// Others: read and execute.
	DefaultFolderPermissions os.FileMode = 0o755
)

const (
	// DefaultMaxLogLength is the default maximum size (in bytes) of a logged body.
	// Longer bodies are truncated in the log output only.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB

	// DefaultMaxConcurrentRequests is the default number of requests executed in parallel.
	DefaultMaxConcurrentRequests = 1
)
