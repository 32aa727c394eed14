package projection

import (
	"iter"

	"github.com/roach88/patternspace/internal/model"
)

// rolePairs lists the link pairs in emission order.
var rolePairs = [...][2]model.Role{
	{model.RoleProperty, model.RoleProcess},
	{model.RoleProperty, model.RolePerspective},
	{model.RoleProcess, model.RolePerspective},
}

// Graph builds the full graph projection. Nodes follow global pattern
// insertion order; links follow relationship insertion order and, within a
// relationship, the role pair order property-process,
// property-perspective, process-perspective. Links are not de-duplicated.
func Graph(src Source, opts ...Option) (model.GraphProjection, error) {
	cfg := newConfig(opts)

	nodes := []model.Node{}
	known := make(map[string]model.Kind)
	for p := range src.AllPatterns() {
		known[p.ID] = p.Kind
		nodes = append(nodes, model.Node{
			ID:     p.ID,
			Name:   p.Name,
			Kind:   p.Kind,
			Domain: model.NullableDomain(p.Domain),
		})
	}

	seq, tally := graphLinks(src, known, cfg)
	links := []model.Link{}
	for l := range seq {
		links = append(links, l)
	}
	if tally.Err != nil {
		return model.GraphProjection{}, tally.Err
	}

	cfg.logger.Info("graph projected",
		"nodes", len(nodes),
		"links", len(links),
		"omitted", tally.Skipped,
		"unresolved", tally.Unresolved)

	return model.GraphProjection{
		Nodes:   nodes,
		Links:   links,
		Omitted: tally.Skipped,
	}, nil
}

// GraphLinks is the streaming form of Graph's links. The sequence is
// single-pass; Skipped in the tally becomes the omitted count.
func GraphLinks(src Source, opts ...Option) (iter.Seq[model.Link], *Tally) {
	known := make(map[string]model.Kind)
	for p := range src.AllPatterns() {
		known[p.ID] = p.Kind
	}
	return graphLinks(src, known, newConfig(opts))
}

func graphLinks(src Source, known map[string]model.Kind, cfg config) (iter.Seq[model.Link], *Tally) {
	tally := &Tally{}
	consumed := false
	seq := func(yield func(model.Link) bool) {
		if consumed {
			return
		}
		consumed = true

		for rel := range src.AllRelationships() {
			if role, bad := firstUnresolved(rel, known); bad {
				if err := unresolved(rel, role, tally, cfg); err != nil {
					return
				}
				tally.Skipped++
				continue
			}

			emitted := 0
			for _, pair := range rolePairs {
				a, b := rel.RoleID(pair[0]), rel.RoleID(pair[1])
				if a == "" || b == "" {
					continue
				}
				emitted++
				tally.Emitted++
				if !yield(model.Link{
					Source:   a,
					Target:   b,
					Strength: rel.Strength,
					Type:     model.LinkType(pair[0], pair[1]),
				}) {
					return
				}
			}
			if emitted == 0 {
				cfg.logger.Debug("relationship omitted: fewer than two roles", "id", rel.ID)
				tally.Skipped++
			}
		}
	}
	return seq, tally
}

// firstUnresolved reports the first populated role whose id is not a
// pattern of the role's kind.
func firstUnresolved(rel model.Relationship, known map[string]model.Kind) (model.Role, bool) {
	for _, role := range rel.PopulatedRoles() {
		if kind, ok := known[rel.RoleID(role)]; !ok || kind != role.Kind() {
			return role, true
		}
	}
	return "", false
}
