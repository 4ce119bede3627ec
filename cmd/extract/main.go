package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"shiproute/pkg/coastline"
	"shiproute/pkg/graph"
	osmparser "shiproute/pkg/osm"
	"shiproute/pkg/polygon"
)

func main() {
	output := flag.String("o", "graph.bin", "Output binary graph file path")
	coastlinesOut := flag.String("s", "coastlines.bin", "Output stitched coastlines file path")
	bbox := flag.String("bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: extract <pbf-or-sec> [-s coastlines.bin] [-o graph.bin] [-bbox minLat,minLng,maxLat,maxLng]")
		os.Exit(1)
	}
	input := flag.Arg(0)
	// Flags may also follow the input path, as the usage line shows.
	flag.CommandLine.Parse(flag.Args()[1:])

	var opts osmparser.ParseOptions
	if *bbox != "" {
		var minLat, minLng, maxLat, maxLng float64
		if _, err := fmt.Sscanf(*bbox, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng); err != nil {
			log.Fatalf("Invalid bbox format (expected minLat,minLng,maxLat,maxLng): %v", err)
		}
		opts.BBox = osmparser.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
		log.Printf("Using bounding box filter: lat [%.4f, %.4f], lng [%.4f, %.4f]", minLat, maxLat, minLng, maxLng)
	}

	start := time.Now()

	log.Println("Opening OSM file...")
	f, err := os.Open(input)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer f.Close()

	log.Println("Parsing coastline ways...")
	parseResult, err := osmparser.Parse(context.Background(), f, opts)
	if err != nil {
		log.Fatalf("Failed to parse OSM data: %v", err)
	}
	log.Printf("Parsed %d coastline segments", len(parseResult.Segments))

	log.Println("Stitching segments into rings...")
	rings, stats := coastline.Stitch(parseResult.Segments)
	log.Printf("Stitched %d rings from %d segments (%d dangling, %d degenerate)",
		stats.RingsProduced, stats.InputSegments, stats.DanglingCount, stats.DegenerateCount)

	// InputMalformed, spec §7: too many segments never closed into a ring.
	// Abort before any output file is written.
	const danglingThreshold = 10000
	if stats.DanglingCount > danglingThreshold {
		log.Fatalf("Dangling segment count %d exceeds threshold %d, aborting", stats.DanglingCount, danglingThreshold)
	}

	log.Printf("Writing coastlines to %s...", *coastlinesOut)
	if err := graph.WriteCoastlines(*coastlinesOut, rings); err != nil {
		log.Fatalf("Failed to write coastlines: %v", err)
	}

	log.Println("Building water polygon index...")
	idx := polygon.Build(rings)
	log.Printf("Polygon index: %d rings", idx.NumRings())

	log.Println("Sampling water nodes and building graph...")
	g := graph.Build(idx)
	log.Printf("Graph: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	stat := graph.ComputeComponentStats(g)
	log.Printf("Connected components: %d total, largest %d nodes (%.1f%%), second-largest %d nodes",
		stat.NumComponents, stat.LargestSize, stat.LargestFractionOfAll*100, stat.SecondLargestSize)

	log.Printf("Writing graph to %s...", *output)
	if err := graph.WriteBinary(*output, g); err != nil {
		log.Fatalf("Failed to write binary: %v", err)
	}

	info, _ := os.Stat(*output)
	elapsed := time.Since(start)
	log.Printf("Done in %s. Output: %s (%.1f MB)", elapsed.Round(time.Second), *output, float64(info.Size())/(1024*1024))
}
