// Package bsp partitions a rectangular map with a binary space partition,
// places one room per leaf region and carves corridors between sibling
// subtrees.
//
// # Pipeline
//
// A run is three calls sharing one [Config], one [Rand] and one [Canvas]:
//
//	tree := bsp.Generate(cfg, rng)
//	rooms := bsp.PlaceRooms(tree, cfg, rng, canvas)
//	routing := bsp.NewRouter(cfg, logger).Route(tree, rooms, canvas, rng)
//
// The order of random draws is fixed: the root orientation, then one split
// ratio per split in depth-first order, then three draws per leaf in
// breadth-first leaf order, then one draw per routed internal node in
// post-order. A given seed therefore always yields the same map.
//
// # Corridors
//
// For each internal node the router intersects the children's room ranges
// on the axis perpendicular to the split. An empty intersection means the
// node is skipped and its two subtrees stay disconnected; this is reported
// in [Routing.Skipped] and is not an error. Otherwise a corridor of
// Config.CorridorSize cells is placed inside the intersection and slid
// sideways until both of its ends meet flat walls, as detected by [Walk].
//
// Package dungeon wraps these steps into a single call.
package bsp
