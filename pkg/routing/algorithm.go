package routing

import "fmt"

// Algorithm selects which search the Router runs. The Shortcut variants run
// the exact same code as their plain counterparts (spec §4.6: "No
// algorithmic change; speedup arises entirely from the graph augmentation")
// — they exist as distinct names so the CLI knows whether to load the
// graph file's shortcut expansion table (base vs. shortcut-augmented file).
type Algorithm int

const (
	Dijkstra Algorithm = iota
	BiDijkstra
	AStar
	ShortcutDijkstra
	ShortcutAStar
)

func (a Algorithm) String() string {
	switch a {
	case Dijkstra:
		return "Dijkstra"
	case BiDijkstra:
		return "BiDijkstra"
	case AStar:
		return "AStar"
	case ShortcutDijkstra:
		return "ShortcutDijkstra"
	case ShortcutAStar:
		return "ShortcutAStar"
	default:
		return "Unknown"
	}
}

// ParseAlgorithm maps a CLI-supplied algorithm name to its Algorithm value.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "Dijkstra":
		return Dijkstra, nil
	case "BiDijkstra":
		return BiDijkstra, nil
	case "AStar":
		return AStar, nil
	case "ShortcutDijkstra":
		return ShortcutDijkstra, nil
	case "ShortcutAStar":
		return ShortcutAStar, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q", name)
	}
}

// baseline reports which unidirectional/bidirectional code path an
// Algorithm runs under the hood.
func (a Algorithm) baseline() Algorithm {
	switch a {
	case ShortcutDijkstra:
		return Dijkstra
	case ShortcutAStar:
		return AStar
	default:
		return a
	}
}
