// Package utils holds small helpers shared by the disrello packages that do
// not warrant a package of their own.
package utils

// Build metadata reported by "disrello version" and the MCP server. Release
// builds overwrite these with -ldflags -X.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
