// Package version provides centralized version information for the batchq
// monorepo. The gateway daemon (batchqd) and the CLI (batchqctl) are
// versioned independently so the management tool can evolve separately from
// the gateway, while each stays consistent within itself.
// All versions follow semantic versioning (semver) conventions.

package version

// BatchqdVersion holds the current batchqd gateway daemon version.
// Format: major.minor.patch[-prerelease][+build]
const BatchqdVersion = "0.1.0-dev"

// BatchqctlVersion holds the current batchqctl CLI version.
// Format: major.minor.patch[-prerelease][+build]
const BatchqctlVersion = "0.1.0-dev"
