// Package ordering sequences points of interest into a visiting order relative
// to a reference coordinate.
//
// Three strategies are provided:
//
//   - ByProximity: stable sort by great-circle distance to the reference.
//     Complexity O(n log n).
//   - ByExactShortestRoute / ExactShortestRoute: the permutation with the
//     smallest open path length reference -> p1 -> ... -> pn (no return leg),
//     found by brute force over every ordering. Complexity O(n!·n).
//   - ByNearestNeighbor: greedy walk to the closest unvisited point.
//     Complexity O(n² log n). Never shorter than the exact route.
//
// The exact solver is a hard scaling limit, not a tuning knob: 8 points is
// 40,320 orderings, 10 is 3.6 million, 13 is over six billion. Interactive
// callers must go through ExactShortestRoute with a MaxPoints ceiling and a
// cancellable context.
//
// Every function here is pure. Inputs are copied, never mutated, and the
// result is always a permutation of the input. Coordinates are assumed valid;
// range checking belongs to the caller.
package ordering
