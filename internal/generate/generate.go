// Package generate builds synthetic domain documents for load testing and
// demos.
//
// Output is a pure function of Config: the same config yields a
// byte-identical document. Randomness comes from a PCG source seeded with
// Config.Seed, and ids are UUID v5 values under a namespace derived from
// the seed.
package generate

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/roach88/patternspace/internal/loader"
	"github.com/roach88/patternspace/internal/model"
)

// Config describes the document to generate.
type Config struct {
	Domain        string  `validate:"required"`
	Seed          uint64
	Properties    int     `validate:"gte=1,lte=100000"`
	Processes     int     `validate:"gte=1,lte=100000"`
	Perspectives  int     `validate:"gte=1,lte=100000"`
	Relationships int     `validate:"gte=0,lte=1000000"`
	BinaryRatio   float64 `validate:"gte=0,lte=1"` // share of relationships with one role left null
}

// DefaultConfig is a small domain that renders comfortably.
func DefaultConfig() Config {
	return Config{
		Domain:        "synthetic",
		Seed:          1,
		Properties:    8,
		Processes:     6,
		Perspectives:  4,
		Relationships: 40,
		BinaryRatio:   0.2,
	}
}

var configValidate = validator.New()

// Validate checks the config's bounds.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid generator config: %w", err)
	}
	return nil
}

// namespaceRoot is the parent namespace for all seed namespaces.
var namespaceRoot = uuid.MustParse("6f1c2b0e-5a7d-4c3e-9b8a-2d4f6e8a0c1b")

// Domain generates a document.
//
// Patterns are named "<Kind> <n>" and relationships pick one pattern per
// role uniformly. A BinaryRatio share of relationships leave exactly one
// role null, chosen uniformly. Strength and confidence are rounded to two
// decimals.
func Domain(cfg Config) (*loader.Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ns := uuid.NewSHA1(namespaceRoot, []byte(strconv.FormatUint(cfg.Seed, 10)))
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	newID := func(kind string, n int) string {
		return uuid.NewSHA1(ns, []byte(fmt.Sprintf("%s/%d", kind, n))).String()
	}

	doc := &loader.Document{
		Domain:   cfg.Domain,
		Metadata: map[string]any{"generator": "patternspace", "seed": cfg.Seed},
	}

	counts := map[model.Kind]int{
		model.KindProperty:    cfg.Properties,
		model.KindProcess:     cfg.Processes,
		model.KindPerspective: cfg.Perspectives,
	}
	pools := make(map[model.Kind][]string, 3)
	for _, kind := range model.Kinds() {
		records := make([]loader.PatternRecord, counts[kind])
		for i := range records {
			id := newID(string(kind), i)
			records[i] = loader.PatternRecord{
				ID:   id,
				Name: fmt.Sprintf("%s %d", titleCase(kind), i+1),
				Type: string(kind),
			}
			pools[kind] = append(pools[kind], id)
		}
		switch kind {
		case model.KindProperty:
			doc.Patterns.Properties = records
		case model.KindProcess:
			doc.Patterns.Processes = records
		case model.KindPerspective:
			doc.Patterns.Perspectives = records
		}
	}

	doc.Relationships = make([]loader.RelationshipRecord, cfg.Relationships)
	for i := range doc.Relationships {
		ids := [3]*string{}
		for j, kind := range model.Kinds() {
			pool := pools[kind]
			id := pool[rng.IntN(len(pool))]
			ids[j] = &id
		}
		if rng.Float64() < cfg.BinaryRatio {
			ids[rng.IntN(3)] = nil
		}
		strength := round2(rng.Float64())
		confidence := round2(rng.Float64())
		doc.Relationships[i] = loader.RelationshipRecord{
			ID:            newID("relationship", i),
			PropertyID:    ids[0],
			ProcessID:     ids[1],
			PerspectiveID: ids[2],
			Strength:      &strength,
			Confidence:    &confidence,
		}
	}
	return doc, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func titleCase(k model.Kind) string {
	s := string(k)
	return string(s[0]-'a'+'A') + s[1:]
}
