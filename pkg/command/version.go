package command

// Version information for the command module. The names carry a Module
// prefix because Version is also a command type in this package.
const (
	// ModuleVersion is the current version of the command module.
	ModuleVersion = "1.0.0"

	// MinCompatibleModuleVersion is the minimum version that is compatible with this version.
	MinCompatibleModuleVersion = "1.0.0"
)
