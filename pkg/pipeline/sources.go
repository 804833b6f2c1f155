package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/wordtower/pkg/cache"
	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/gameapi"
	"github.com/matzehuels/wordtower/pkg/geom"
)

// Inventory is a word list with the round state it came with.
type Inventory struct {
	Words       []string      `json:"words"`
	Volume      geom.Volume   `json:"volume"`
	Used        []int         `json:"used,omitempty"`
	Turn        int           `json:"turn,omitempty"`
	ShuffleLeft int           `json:"shuffle_left,omitempty"`
	NextTurn    time.Duration `json:"next_turn,omitempty"`
}

// Vocabulary returns the words as a vocabulary.
func (inv *Inventory) Vocabulary() *geom.Vocabulary {
	return geom.NewVocabulary(inv.Words)
}

// InventoryFromWords converts a words response.
func InventoryFromWords(r *gameapi.WordsResponse) *Inventory {
	return &Inventory{
		Words:       r.Words,
		Volume:      r.Volume(),
		Used:        r.UsedIndexes,
		Turn:        r.Turn,
		ShuffleLeft: r.ShuffleLeft,
		NextTurn:    r.NextTurn(),
	}
}

// WordSource supplies word inventories.
type WordSource interface {
	// Name identifies the source in logs and hooks.
	Name() string
	Fetch(ctx context.Context) (*Inventory, error)
}

// CacheableSource is a WordSource whose inventories may be cached under
// CacheKey.
type CacheableSource interface {
	WordSource
	CacheKey() string
}

// StaticSource serves a fixed word list.
type StaticSource struct {
	Words  []string
	Volume geom.Volume
}

func (s StaticSource) Name() string { return "static" }

func (s StaticSource) Fetch(context.Context) (*Inventory, error) {
	if err := werrors.ValidateWords(s.Words); err != nil {
		return nil, err
	}
	return &Inventory{Words: append([]string(nil), s.Words...), Volume: s.Volume}, nil
}

// FileSource reads words from disk. A .json file holds a words response
// as returned by the game service; any other file lists one word per
// line.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + filepath.Base(s.Path) }

func (s FileSource) Fetch(context.Context) (*Inventory, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, werrors.Wrap(werrors.ErrCodeNotFound, err, "read words file")
	}
	inv, err := ParseWords(filepath.Ext(s.Path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return inv, nil
}

// ParseWords decodes a words file. ext selects the format: ".json" for a
// words response, anything else for one word per line.
func ParseWords(ext string, data []byte) (*Inventory, error) {
	var inv *Inventory
	if strings.EqualFold(ext, ".json") {
		var r gameapi.WordsResponse
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, werrors.Wrap(werrors.ErrCodeInvalidInput, err, "decode words response")
		}
		inv = InventoryFromWords(&r)
	} else {
		inv = &Inventory{}
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			if w := strings.TrimSpace(sc.Text()); w != "" && !strings.HasPrefix(w, "#") {
				inv.Words = append(inv.Words, w)
			}
		}
		if err := sc.Err(); err != nil {
			return nil, werrors.Wrap(werrors.ErrCodeInvalidInput, err, "read words")
		}
	}
	if err := werrors.ValidateWords(inv.Words); err != nil {
		return nil, err
	}
	return inv, nil
}

// WordsClient is the part of the game client a source needs.
type WordsClient interface {
	Words(ctx context.Context) (*gameapi.WordsResponse, error)
}

// APISource fetches the live inventory from the game service.
type APISource struct {
	Client WordsClient

	// Key scopes cached inventories, typically the base URL plus a hash
	// of the token.
	Key string
}

func (s APISource) Name() string { return "api" }

func (s APISource) CacheKey() string { return "api:" + s.Key }

func (s APISource) Fetch(ctx context.Context) (*Inventory, error) {
	r, err := s.Client.Words(ctx)
	if err != nil {
		return nil, err
	}
	return InventoryFromWords(r), nil
}

// APISourceKey derives APISource.Key without exposing the token.
func APISourceKey(baseURL, token string) string {
	return baseURL + "#" + cache.Hash([]byte(token))[:12]
}
