package routing

import "shiproute/pkg/graph"

const noEdge = ^uint32(0)

// expandPath turns a base-node-and-shortcut-node path into a pure
// base-node sequence, by looking up each hop's edge and splicing in its
// interior expansion if it's a shortcut (spec §4.7, §9's "path segment is a
// tagged variant {BaseEdge|ShortcutEdge} so expansion is a pure lookup").
//
// This is considerably simpler than the teacher's CH unpacking
// (unpackForwardEdge/unpackBackwardEdge's explicit stack over nested
// middle-node edges): a rectangle shortcut stores its entire interior path
// directly, with no shortcuts-of-shortcuts, so one flat table lookup per
// hop suffices — no recursion, no depth bound needed.
func expandPath(g *graph.Graph, nodePath []uint32) []uint32 {
	if len(nodePath) == 0 {
		return nil
	}

	out := make([]uint32, 0, len(nodePath))
	out = append(out, nodePath[0])

	for i := 0; i < len(nodePath)-1; i++ {
		u, v := nodePath[i], nodePath[i+1]
		if e := findEdge(g, u, v); e != noEdge {
			if expansion := g.Expansion(e); expansion != nil {
				out = append(out, expansion...)
			}
		}
		out = append(out, v)
	}

	return out
}

// findEdge returns the index of an edge from u to v, or noEdge if none exists.
func findEdge(g *graph.Graph, u, v uint32) uint32 {
	start, end := g.EdgesFrom(u)
	for e := start; e < end; e++ {
		if g.Head[e] == v {
			return e
		}
	}
	return noEdge
}
