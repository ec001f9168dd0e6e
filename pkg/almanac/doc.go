// Package almanac maps seed identifiers through a chain of piecewise-linear
// category stages and searches for the lowest resulting location.
//
// # Overview
//
// An almanac is a list of seeds plus a set of stages. Each [Stage] converts
// numbers of one category (for example "seed") into numbers of the next
// category (for example "soil") using an ordered list of [Entry] windows.
// Following the stages from "seed" to "location" turns every seed into a
// location; the package computes the minimum of those locations.
//
// # Parsing
//
// [Parse] reads the text format:
//
//	seeds: 79 14 55 13
//
//	seed-to-soil map:
//	50 98 2
//	52 50 48
//
// Every fault (malformed header, non-numeric token, short line, zero-length
// entry) is returned as a coded error from the errors package; nothing panics.
//
// # Two strategies
//
// Exact: [MinLocation] resolves each listed seed through the category graph.
// The graph is compiled once into a [Chain] so that per-seed evaluation is a
// plain slice walk.
//
//	a, err := almanac.Parse(r)
//	loc, err := almanac.MinLocation(ctx, a)
//
// Ranged: the seed list is read as (start, length) pairs and every value in
// every range is evaluated through the seven-stage [Fixed] pipeline.
// [MinLocationRanged] fans out one task per range and partitions each range
// into batches spread across workers.
//
//	f, err := almanac.NewFixed(a)
//	loc, err := almanac.MinLocationRanged(ctx, f, almanac.ScanOptions{Workers: 8})
//
// The ranged scan is brute force: total work is the sum of all range lengths.
// Splitting whole intervals at entry boundaries would make it proportional to
// the number of entries instead; that is not done here.
//
// # Concurrency
//
// [Almanac], [Chain] and [Fixed] are immutable after construction and safe
// for concurrent reads. Minimizers only combine per-task local minima, so the
// result does not depend on scheduling, worker count or batch size.
package almanac
