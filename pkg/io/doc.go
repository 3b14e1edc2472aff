// Package io provides JSON import and export for generated dungeons.
//
// # JSON Format
//
// A snapshot holds everything needed to re-render a dungeon without
// regenerating it:
//
//	{
//	  "version": 1,
//	  "seed": 42,
//	  "config": {"size": {"x": 64, "y": 48}, "depth": 5, ...},
//	  "nodes": [{"id": 0, "parent": -1, "children": [1, 2], ...}, ...],
//	  "rooms": [{"id": 0, "node": 3, "start": {...}, "end": {...}}, ...],
//	  "corridors": [{"node": 1, "start": {...}, "end": {...}, "aligned": true}],
//	  "stats": {...},
//	  "tiles": ["0000111100", ...]
//	}
//
// Tiles are stored bottom row first, one hex digit per cell holding the
// tile bit flags (0 empty, 1 room, 2 corridor, 4 door).
//
// # Import
//
// Use [ImportJSON] to read a dungeon from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate the tile rows against the configured
// size and the node list against the partition invariants.
//
// # Export
//
// Use [ExportJSON] to write a dungeon to a file, or [WriteJSON] to write to
// any io.Writer.
package io
