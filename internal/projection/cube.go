package projection

import (
	"iter"

	"github.com/roach88/patternspace/internal/integrity"
	"github.com/roach88/patternspace/internal/model"
)

// Cube builds the full cube projection.
func Cube(src Source, opts ...Option) (model.CubeProjection, error) {
	cfg := newConfig(opts)
	dims, seq, tally := cubeConnections(src, cfg)

	connections := []model.Connection{}
	for c := range seq {
		connections = append(connections, c)
	}
	if tally.Err != nil {
		return model.CubeProjection{}, tally.Err
	}

	cfg.logger.Info("cube projected",
		"connections", len(connections),
		"skipped", tally.Skipped,
		"unresolved", tally.Unresolved)

	return model.CubeProjection{
		Dimensions:  dims,
		Connections: connections,
		Skipped:     tally.Skipped,
	}, nil
}

// CubeConnections is the streaming form of Cube. Dimensions are built
// eagerly; connections are produced lazily in relationship insertion order.
// The sequence is single-pass: ranging over it a second time yields
// nothing. Call CubeConnections again to restart.
func CubeConnections(src Source, opts ...Option) (model.Dimensions, iter.Seq[model.Connection], *Tally) {
	return cubeConnections(src, newConfig(opts))
}

// axisIndex maps pattern id to its 0-based position on one axis.
type axisIndex map[string]int

func cubeConnections(src Source, cfg config) (model.Dimensions, iter.Seq[model.Connection], *Tally) {
	var dims model.Dimensions
	index := make(map[model.Kind]axisIndex, 3)

	for _, kind := range model.Kinds() {
		entries := []model.DimensionEntry{} // [] not null when the axis is empty
		idx := axisIndex{}
		for p := range src.ByKind(kind) {
			idx[p.ID] = len(entries)
			entries = append(entries, model.DimensionEntry{
				ID:     p.ID,
				Name:   p.Name,
				Domain: model.NullableDomain(p.Domain),
			})
		}
		index[kind] = idx
		switch kind {
		case model.KindProperty:
			dims.Property = entries
		case model.KindProcess:
			dims.Process = entries
		case model.KindPerspective:
			dims.Perspective = entries
		}
	}

	tally := &Tally{}
	consumed := false
	seq := func(yield func(model.Connection) bool) {
		if consumed {
			return
		}
		consumed = true

		for rel := range src.AllRelationships() {
			coords, missing, ok := place(rel, index)
			if !ok {
				if missing != "" {
					if err := unresolved(rel, missing, tally, cfg); err != nil {
						return
					}
				} else {
					cfg.logger.Debug("relationship skipped: null role", "id", rel.ID)
				}
				tally.Skipped++
				continue
			}
			tally.Emitted++
			if !yield(model.Connection{
				ID:            rel.ID,
				PropertyID:    rel.PropertyID,
				ProcessID:     rel.ProcessID,
				PerspectiveID: rel.PerspectiveID,
				Strength:      rel.Strength,
				Confidence:    rel.Confidence,
				X:             coords[0],
				Y:             coords[1],
				Z:             coords[2],
			}) {
				return
			}
		}
	}
	return dims, seq, tally
}

// place resolves the three axis coordinates of rel. When ok is false and
// missing is empty, some role is null. Otherwise missing names the first
// role whose non-empty id is absent from its axis; unresolved ids take
// precedence over null roles.
func place(rel model.Relationship, index map[model.Kind]axisIndex) (coords [3]int, missing model.Role, ok bool) {
	complete := true
	for i, role := range model.Roles() {
		ref := rel.RoleID(role)
		if ref == "" {
			complete = false
			continue
		}
		pos, found := index[role.Kind()][ref]
		if !found {
			return coords, role, false
		}
		coords[i] = pos
	}
	return coords, "", complete
}

// unresolved records a relationship whose role id does not resolve. In
// strict mode it sets tally.Err and returns it.
func unresolved(rel model.Relationship, role model.Role, tally *Tally, cfg config) error {
	ref := rel.RoleID(role)
	if cfg.strict {
		tally.Err = integrity.NewCorruptStateError(rel.ID, role.Field(), ref)
		return tally.Err
	}
	tally.Unresolved++
	cfg.logger.Warn("relationship references unknown pattern",
		"id", rel.ID,
		"field", role.Field(),
		"ref", ref)
	return nil
}
