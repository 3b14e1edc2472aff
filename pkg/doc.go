// Package pkg provides the libraries behind bspgen, a seeded dungeon
// generator based on binary space partitioning.
//
// # Overview
//
// A map is produced in three stages, each deterministic for a given seed:
//
//	rectangle
//	    ↓
//	[bsp] partition tree (recursive splits)
//	    ↓
//	[bsp] one room per leaf
//	    ↓
//	[bsp] one corridor per internal node, bottom-up
//	    ↓
//	[grid] tile map  →  [render] txt / svg / png / pdf / dot
//
// # Packages
//
//   - [grid]: tile bitmask and the 2D grid the generator paints
//   - [bsp]: configuration, partition tree, room placement and corridor routing
//   - [dungeon]: one generation run with stats, hooks and a connectivity report
//   - [io]: JSON snapshots
//   - [render]: text, SVG and tree renderers plus rsvg-convert export
//   - [pipeline]: cached generate → render runs shared by CLI and server
//   - [cache]: file, Redis and MongoDB backends
//   - [config]: TOML configuration
//   - [server]: HTTP API
//   - [errors], [observability], [buildinfo]: ambient support
//
// # Quick Start
//
//	d, err := dungeon.Generate(bsp.DefaultConfig(), 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(text.Render(d.Grid, text.Options{Border: true}))
package pkg
