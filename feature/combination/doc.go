// Package combination turns the current library config into rendered
// combinations. Random mode draws one value per participating library and
// repeats for the requested count; cartesian mode samples a per-library value
// set and exposes the full cross product for expansion.
package combination
