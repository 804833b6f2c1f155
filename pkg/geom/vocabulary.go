package geom

// Vocabulary is an immutable, ordered word list. A word's id is its index.
// Letters are decoded to runes once so lengths count letters, not bytes.
type Vocabulary struct {
	text    []string
	letters [][]rune
}

// NewVocabulary copies words into a Vocabulary.
func NewVocabulary(words []string) *Vocabulary {
	v := &Vocabulary{
		text:    make([]string, len(words)),
		letters: make([][]rune, len(words)),
	}
	copy(v.text, words)
	for i, w := range words {
		v.letters[i] = []rune(w)
	}
	return v
}

// Size returns the number of words.
func (v *Vocabulary) Size() int {
	if v == nil {
		return 0
	}
	return len(v.text)
}

// Has reports whether id references a word.
func (v *Vocabulary) Has(id int) bool {
	return v != nil && id >= 0 && id < len(v.text)
}

// Text returns the literal word for id, or "" if id is unknown.
func (v *Vocabulary) Text(id int) string {
	if !v.Has(id) {
		return ""
	}
	return v.text[id]
}

// Letters returns the letters of word id. The slice must not be modified.
func (v *Vocabulary) Letters(id int) []rune {
	if !v.Has(id) {
		return nil
	}
	return v.letters[id]
}

// Len returns the letter count of word id, or 0 if id is unknown.
func (v *Vocabulary) Len(id int) int {
	return len(v.Letters(id))
}

// Words returns a copy of the word list.
func (v *Vocabulary) Words() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.text))
	copy(out, v.text)
	return out
}
