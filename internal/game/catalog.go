package game

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Catalog is the static card library, one bucket per level.
type Catalog struct {
	Levels [NumLevels][]Card
}

// Size returns the total number of cards across all levels.
func (c Catalog) Size() int {
	n := 0
	for _, cards := range c.Levels {
		n += len(cards)
	}
	return n
}

// Clone returns a deep copy.
func (c Catalog) Clone() Catalog {
	var out Catalog
	for l, cards := range c.Levels {
		if cards == nil {
			continue
		}
		out.Levels[l] = make([]Card, len(cards))
		for i := range cards {
			out.Levels[l][i] = *cards[i].Clone()
		}
	}
	return out
}

// cardNamespace scopes content-hash identifiers.
var cardNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("evosplendor:cards"))

// cardRecord is the loose on-disk shape of a card.
type cardRecord struct {
	ID        string       `mapstructure:"id"`
	MD5       string       `mapstructure:"md5"`
	Name      string       `mapstructure:"name"`
	Level     *int         `mapstructure:"level"`
	Point     int          `mapstructure:"point"`
	Cost      []CostItem   `mapstructure:"cost"`
	Reward    []CostItem   `mapstructure:"reward"` // a single mapping is accepted
	Evolution *Evolution   `mapstructure:"evolution"`
	Stacked   []cardRecord `mapstructure:"stackedCards"`
	Under     []cardRecord `mapstructure:"underCards"`
	Consumed  []cardRecord `mapstructure:"consumedCards"`
}

//go:embed cards.yaml
var defaultCatalogYAML []byte

// DefaultCatalog parses the built-in catalog.
func DefaultCatalog() (Catalog, error) {
	return ParseCatalogYAML(defaultCatalogYAML)
}

// LoadCatalogFile reads a catalog from a .json, .yaml or .yml file.
func LoadCatalogFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseCatalogYAML(data)
	default:
		return ParseCatalogJSON(data)
	}
}

// ParseCatalogJSON parses a JSON catalog keyed by level bucket.
func ParseCatalogJSON(data []byte) (Catalog, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog JSON: %w", err)
	}
	return DecodeCatalog(raw)
}

// ParseCatalogYAML parses a YAML catalog keyed by level bucket.
func ParseCatalogYAML(data []byte) (Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog YAML: %w", err)
	}
	return DecodeCatalog(raw)
}

// DecodeCatalog builds a catalog from generic decoded data. Unknown buckets
// and unknown card fields are ignored. Missing levels default to the
// bucket's level; missing identifiers are derived from card content.
func DecodeCatalog(raw map[string]any) (Catalog, error) {
	var cat Catalog
	for l := 0; l < NumLevels; l++ {
		key := levelKeys[l]
		bucket, ok := raw[key]
		if !ok || bucket == nil {
			continue
		}

		var records []cardRecord
		if err := decodeRecords(bucket, &records); err != nil {
			return Catalog{}, fmt.Errorf("catalog %s: %w", key, err)
		}

		cards := make([]Card, 0, len(records))
		taken := make(map[string]bool, len(records))
		for i, rec := range records {
			card, err := rec.card(l + 1)
			if err != nil {
				return Catalog{}, fmt.Errorf("catalog %s[%d]: %w", key, i, err)
			}
			base := card.ID
			for n := 2; taken[card.ID]; n++ {
				card.ID = fmt.Sprintf("%s-%d", base, n)
			}
			taken[card.ID] = true
			cards = append(cards, card)
		}
		cat.Levels[l] = cards
	}
	return cat, nil
}

func decodeRecords(input any, out *[]cardRecord) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       colorHook,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

var colorType = reflect.TypeOf(Color(0))

// colorHook accepts color names ("poke" ... "master") as well as indices.
func colorHook(from, to reflect.Type, data any) (any, error) {
	if to != colorType || from.Kind() != reflect.String {
		return data, nil
	}
	s := strings.ToLower(strings.TrimSpace(data.(string)))
	if c, ok := ParseColor(s); ok {
		return c, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Color(n), nil
	}
	return nil, fmt.Errorf("unknown color %q", s)
}

// ParseColor resolves a color name.
func ParseColor(name string) (Color, bool) {
	for c := Color(0); c < NumColors; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

func (r cardRecord) card(defaultLevel int) (Card, error) {
	c := Card{
		Name:      r.Name,
		Level:     defaultLevel,
		Point:     r.Point,
		Cost:      r.Cost,
		Reward:    r.Reward,
		Evolution: r.Evolution,
	}
	if r.Level != nil {
		c.Level = *r.Level
	}
	if c.Level < 1 || c.Level > NumLevels {
		return Card{}, fmt.Errorf("level %d out of range", c.Level)
	}
	if err := checkItems("cost", c.Cost); err != nil {
		return Card{}, err
	}
	if err := checkItems("reward", c.Reward); err != nil {
		return Card{}, err
	}
	if c.Evolution != nil {
		if err := checkItems("evolution cost", []CostItem{c.Evolution.Cost}); err != nil {
			return Card{}, err
		}
	}

	stack := r.Stacked
	if len(stack) == 0 {
		stack = r.Under
	}
	if len(stack) == 0 {
		stack = r.Consumed
	}
	for i, s := range stack {
		under, err := s.card(defaultLevel)
		if err != nil {
			return Card{}, fmt.Errorf("stacked[%d]: %w", i, err)
		}
		c.Stacked = append(c.Stacked, under)
	}

	switch {
	case r.MD5 != "":
		c.ID = r.MD5
	case r.ID != "":
		c.ID = r.ID
	default:
		c.ID = contentID(&c)
	}
	return c, nil
}

func checkItems(field string, items []CostItem) error {
	for _, it := range items {
		if !it.Color.Valid() {
			return fmt.Errorf("%s: invalid color %d", field, int(it.Color))
		}
		if it.Number < 0 {
			return fmt.Errorf("%s: negative amount %d", field, it.Number)
		}
	}
	return nil
}

// contentID derives a stable identifier from everything but the ID itself.
func contentID(c *Card) string {
	data, err := json.Marshal(c)
	if err != nil {
		panic(err)
	}
	return uuid.NewSHA1(cardNamespace, data).String()
}
