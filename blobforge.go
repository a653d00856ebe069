package blobforge

// Version is the library version, also stamped into generated banners by
// tooling that wants traceable artifacts.
const Version = "0.1.0"

// Artifact is one generated header/source pair for a set of root types
// under a single address space. The core never persists artifacts; writing
// them to disk (or feeding them to a compiler) is the caller's concern.
type Artifact struct {
	// Header holds type definitions and function declarations.
	Header string
	// Source holds function definitions.
	Source string
}

// ArtifactSink receives generated artifacts for persistence. Implementations
// decide file naming and extensions (conventionally .h and .cl).
type ArtifactSink interface {
	Write(name string, artifact Artifact) error
}
