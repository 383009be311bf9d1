// Package reveal drives the card pack reveal.
//
// Machine owns the phase, the stack queue, the collage and every animation
// session, and turns them into target poses. Scene owns the smoothed pose of
// every visual element and chases those targets once per tick. Both are
// mutated only from a single update loop; nothing in this package starts
// goroutines.
package reveal
