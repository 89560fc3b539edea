package domain

// ============================================================================
// Value Objects
// ============================================================================

// Loader identifies the mod-loading framework a mod targets
type Loader string

const (
	LoaderForge    Loader = "forge"
	LoaderNeoForge Loader = "neoforge"
	LoaderFabric   Loader = "fabric"
	LoaderQuilt    Loader = "quilt"
)

const (
	DefaultLoader  = LoaderForge
	DefaultVersion = "1.20.1"
)

// IsValid checks if the loader is one the templates know about
func (l Loader) IsValid() bool {
	switch l {
	case LoaderForge, LoaderNeoForge, LoaderFabric, LoaderQuilt:
		return true
	}
	return false
}

// UsesFabricMetadata reports whether the loader reads fabric.mod.json instead of mods.toml
func (l Loader) UsesFabricMetadata() bool {
	return l == LoaderFabric || l == LoaderQuilt
}

// ============================================================================
// Entities
// ============================================================================

// SourceFile is a single file of mod source, addressed by its path inside the project
type SourceFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ModArtifact is the canonical output unit: a generated, updated or ported mod.
// Files and Changes are never nil once an artifact leaves the service layer.
type ModArtifact struct {
	ModName       string       `json:"modName"`
	MainClass     string       `json:"mainClass"`
	BuildGradle   string       `json:"buildGradle"`
	Files         []SourceFile `json:"files"`
	TextureNeeded bool         `json:"textureNeeded"`
	Changes       []string     `json:"changes"`
	AIMessage     string       `json:"aiMessage,omitempty"`
}

// Normalize replaces nil collections with empty ones so they serialize as arrays
func (a *ModArtifact) Normalize() {
	if a.Files == nil {
		a.Files = []SourceFile{}
	}
	if a.Changes == nil {
		a.Changes = []string{}
	}
}

// Clone returns a deep copy of the artifact
func (a ModArtifact) Clone() ModArtifact {
	out := a
	if a.Files != nil {
		out.Files = append([]SourceFile(nil), a.Files...)
	}
	if a.Changes != nil {
		out.Changes = append([]string(nil), a.Changes...)
	}
	return out
}

// ArchiveContents is what survives extraction of a submitted mod JAR
type ArchiveContents struct {
	SourceFiles []SourceFile
	ConfigFiles []SourceFile
}

// ChatResult is the outcome of a chat-driven modification
type ChatResult struct {
	AIMessage   string
	UpdatedCode ModArtifact
	Changes     []string
}
