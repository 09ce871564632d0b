package cache

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// SourceKey keys a loaded transaction set, e.g. ("file", "<sha256>").
	SourceKey(kind, ref string) string

	// LayoutKey keys a packed scene built from the transactions hashed in txHash.
	LayoutKey(txHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered output of the layout hashed in layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the scene options that change a layout.
type LayoutKeyOpts struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Resolution int     `json:"resolution"`
	BlockLimit int64   `json:"block_limit"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Theme  string `json:"theme,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SourceKey returns "source:<kind>:<ref>".
func (DefaultKeyer) SourceKey(kind, ref string) string {
	return "source:" + kind + ":" + ref
}

// LayoutKey hashes txHash together with opts.
func (DefaultKeyer) LayoutKey(txHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", txHash, opts)
}

// ArtifactKey hashes layoutHash together with opts.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
