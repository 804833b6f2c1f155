package cache

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey is the key for a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// WordsKey is the key for the last word list fetched from source.
	WordsKey(source string) string

	// BuildKey is the key for the placements built from a vocabulary.
	BuildKey(vocabHash string, opts BuildKeyOpts) string

	// ReportKey is the key for the evaluation of placements against a
	// vocabulary.
	ReportKey(vocabHash string, placements any) string
}

// BuildKeyOpts are the build inputs that change the result.
type BuildKeyOpts struct {
	Volume       [3]int `json:"volume"`
	VerticalStep int    `json:"vertical_step"`
	Used         []int  `json:"used,omitempty"`
	Base         int    `json:"base"`

	// Params holds the remaining builder options. It is hashed as JSON.
	Params any `json:"params,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// WordsKey hashes the source so tokens embedded in it never reach the store
// in clear text.
func (DefaultKeyer) WordsKey(source string) string {
	return hashKey("words", source)
}

// BuildKey hashes the vocabulary hash together with opts.
func (DefaultKeyer) BuildKey(vocabHash string, opts BuildKeyOpts) string {
	return hashKey("build", vocabHash, opts)
}

// ReportKey hashes the vocabulary hash together with the placements.
func (DefaultKeyer) ReportKey(vocabHash string, placements any) string {
	return hashKey("report", vocabHash, placements)
}

var _ Keyer = DefaultKeyer{}
