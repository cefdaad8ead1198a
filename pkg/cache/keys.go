package cache

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// ProgressionKey identifies a generation run over one definition file.
	ProgressionKey(graphHash string, opts ProgressionKeyOpts) string

	// ArtifactKey identifies a rendering of one generation run.
	ArtifactKey(progressionHash string, opts ArtifactKeyOpts) string
}

// ProgressionKeyOpts lists the inputs of a generation run besides the graph.
// Strategies are identified by their canonical names.
type ProgressionKeyOpts struct {
	Root        string `json:"root"`
	Level       string `json:"level"`
	Choice      string `json:"choice"`
	UsageLevel  string `json:"usage_level"`
	UsageChoice string `json:"usage_choice"`
}

// ArtifactKeyOpts lists the inputs of a rendering besides the progression.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Prelude string `json:"prelude,omitempty"` // hash of the prelude text
}

// DefaultKeyer produces keys of the form "<stage>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ProgressionKey implements Keyer.
func (DefaultKeyer) ProgressionKey(graphHash string, opts ProgressionKeyOpts) string {
	return hashKey("progression", graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(progressionHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", progressionHash, opts)
}
