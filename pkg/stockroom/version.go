// Package stockroom holds build metadata for the stockroom module.
package stockroom

// Version is the current release. Builds may override it with
// -ldflags "-X github.com/mesh-intelligence/stockroom/pkg/stockroom.Version=...".
var Version = "0.3.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/stockroom"
