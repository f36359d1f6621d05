// Package stream provides the channel operators used to derive command
// inputs from a Store's observed values.
//
// Every operator takes a context, owns and returns its output channel, and
// closes that channel when its input closes or the context is done.
//
//	selector := stream.Pipe3(
//	    stream.MapBy(func(s Screen) int { return s.Page }),
//	    stream.DistinctValues[int](),
//	    stream.First[int](2),
//	)
package stream
