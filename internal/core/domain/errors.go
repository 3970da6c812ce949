package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidModuleName is returned when a module name is empty or contains a reserved character.
	ErrInvalidModuleName = zerr.New("invalid module name")

	// ErrDuplicateModule is returned when two modules share the same name.
	ErrDuplicateModule = zerr.New("module already exists")

	// ErrDuplicateFile is returned when a module declares two files for the same type and variant.
	ErrDuplicateFile = zerr.New("duplicate file for type and variant")

	// ErrUnknownDependency is returned when a module depends on a name that is not in the repository.
	ErrUnknownDependency = zerr.New("unknown dependency")

	// ErrCycleDetected is returned when the module dependency graph contains a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrUnknownContentType is returned when a file or request names an unsupported content type.
	ErrUnknownContentType = zerr.New("unknown content type")

	// ErrRepositorySealed is returned when a sealed repository is modified.
	ErrRepositorySealed = zerr.New("repository is sealed")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrModuleNotFound is returned when a requested module is not in the repository.
	ErrModuleNotFound = zerr.New("module not found")

	// ErrInvalidExpression is returned when a module expression cannot be parsed.
	ErrInvalidExpression = zerr.New("invalid module expression")

	// ErrInvalidRequest is returned when a request path cannot be parsed.
	ErrInvalidRequest = zerr.New("invalid request")

	// ErrInvalidVersion is returned when a cache-busting version token cannot be parsed.
	ErrInvalidVersion = zerr.New("invalid version token")

	// ErrStaleVersion is returned when a cache-busting version token is older than the retention window.
	ErrStaleVersion = zerr.New("version token is permanently stale")

	// ErrCharsetNotAccepted is returned when the client does not accept utf-8.
	ErrCharsetNotAccepted = zerr.New("utf-8 is not accepted")

	// ErrInvalidPattern is returned when an ignore glob cannot be parsed.
	ErrInvalidPattern = zerr.New("invalid ignore pattern")

	// ErrBuildFailed is returned when a resolved file cannot be read or transformed.
	ErrBuildFailed = zerr.New("build failed")

	// ErrClockAnomaly is returned when a watched resource reports a modification time in the future.
	ErrClockAnomaly = zerr.New("last modified date is in the future")

	// ErrCheckFailed is returned when a file check reports problems.
	ErrCheckFailed = zerr.New("file check found problems")

	// ErrCompressionFailed is returned when the compression transform fails.
	ErrCompressionFailed = zerr.New("failed to compress content")
)
