package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"shiproute/pkg/api"
	"shiproute/pkg/graph"
	"shiproute/pkg/routing"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	if flag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: route <graph.bin> <algorithm> [-port 8080]")
		fmt.Fprintln(os.Stderr, "algorithm ∈ {Dijkstra, BiDijkstra, AStar, ShortcutDijkstra, ShortcutAStar}")
		os.Exit(1)
	}
	graphPath := flag.Arg(0)
	algo, err := routing.ParseAlgorithm(flag.Arg(1))
	if err != nil {
		log.Fatalf("Invalid algorithm: %v", err)
	}
	// Flags may also follow the two positional arguments, as the usage line shows.
	flag.CommandLine.Parse(flag.Args()[2:])

	start := time.Now()

	withShortcuts := algo == routing.ShortcutDijkstra || algo == routing.ShortcutAStar
	log.Printf("Loading graph from %s (shortcuts=%v)...", graphPath, withShortcuts)
	g, err := graph.ReadBinary(graphPath, withShortcuts)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	log.Printf("Loaded: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	log.Println("Building spatial index...")
	r := routing.NewRouter(g, algo)

	// Reclaim memory from init-time temporaries. Without this, Go's heap
	// retains peak RSS from index construction (GC doubles heap each cycle:
	// 120→240→480→960→1920 MB). This returns unused pages to the OS.
	runtime.GC()
	debug.FreeOSMemory()

	loadTime := time.Since(start)
	log.Printf("Ready in %s, algorithm=%s", loadTime.Round(time.Millisecond), algo)

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	stats := api.StatsResponse{
		NumNodes:     g.NumNodes,
		NumEdges:     g.NumEdges,
		HasShortcuts: g.HasShortcuts(),
	}

	handlers := api.NewHandlers(r, stats)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
