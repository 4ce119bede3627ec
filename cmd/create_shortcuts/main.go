package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"shiproute/pkg/graph"
	"shiproute/pkg/shortcut"
)

func main() {
	selectMode := flag.String("select", "", "Path to graph.bin; prints rectangle-selection instructions (interactive selection is an external collaborator)")
	createMode := flag.String("create", "", "Path to graph.bin; builds shortcuts from the rectangles JSON given as the next argument")
	output := flag.String("o", "graph_shortcuts.bin", "Output augmented graph file path")
	flag.Parse()

	switch {
	case *selectMode != "":
		runSelect(*selectMode)
	case *createMode != "":
		if flag.NArg() < 1 {
			fmt.Fprintln(os.Stderr, `Usage: create_shortcuts --create <graph.bin> "<rectangles-json>"`)
			os.Exit(1)
		}
		runCreate(*createMode, flag.Arg(0), *output)
	default:
		fmt.Fprintln(os.Stderr, `Usage: create_shortcuts --select <graph.bin>`)
		fmt.Fprintln(os.Stderr, `       create_shortcuts --create <graph.bin> "<rectangles-json>"`)
		os.Exit(1)
	}
}

// runSelect reports the loaded graph's extent so an external rectangle-
// selection tool has the bounds to work within; the selection UI itself is
// out of scope for this core (spec §4.7: "an external collaborator").
func runSelect(graphPath string) {
	g, err := graph.ReadBinary(graphPath, false)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}

	minLat, maxLat := g.NodeLat[0], g.NodeLat[0]
	minLon, maxLon := g.NodeLon[0], g.NodeLon[0]
	for i := uint32(1); i < g.NumNodes; i++ {
		if g.NodeLat[i] < minLat {
			minLat = g.NodeLat[i]
		}
		if g.NodeLat[i] > maxLat {
			maxLat = g.NodeLat[i]
		}
		if g.NodeLon[i] < minLon {
			minLon = g.NodeLon[i]
		}
		if g.NodeLon[i] > maxLon {
			maxLon = g.NodeLon[i]
		}
	}

	log.Printf("Graph %s: %d nodes spanning lat [%.4f, %.4f], lon [%.4f, %.4f]",
		graphPath, g.NumNodes, minLat, maxLat, minLon, maxLon)
	log.Println(`Pass the rectangles to cover as JSON to --create, e.g.:`)
	log.Println(`  [{"min_lat":1,"max_lat":2,"min_lon":103,"max_lon":104}]`)
}

func runCreate(graphPath, rectanglesJSON, output string) {
	start := time.Now()

	log.Printf("Loading graph from %s...", graphPath)
	g, err := graph.ReadBinary(graphPath, false)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	rects, err := shortcut.ParseRectangles([]byte(rectanglesJSON))
	if err != nil {
		log.Fatalf("Failed to parse rectangles: %v", err)
	}
	log.Printf("Parsed %d rectangles", len(rects))

	log.Println("Building shortcut edges...")
	aug := shortcut.Build(g, rects)
	log.Printf("Augmented graph: %d nodes, %d edges (%d shortcuts added)",
		aug.NumNodes, aug.NumEdges, aug.NumEdges-g.NumEdges)

	log.Printf("Writing augmented graph to %s...", output)
	if err := graph.WriteBinary(output, aug); err != nil {
		log.Fatalf("Failed to write binary: %v", err)
	}

	info, _ := os.Stat(output)
	elapsed := time.Since(start)
	log.Printf("Done in %s. Output: %s (%.1f MB)", elapsed.Round(time.Second), output, float64(info.Size())/(1024*1024))
}
