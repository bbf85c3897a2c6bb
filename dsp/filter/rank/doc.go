// Package rank implements sliding-window order-statistic filters: running
// median, running minimum and running percentile.
//
// All filters use a centred window of odd length. Near the ends of the signal
// the window shrinks to the samples that exist, so no padding values leak
// into the result and the output has the same length as the input.
package rank
