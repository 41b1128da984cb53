// Package plwriter serializes resolved entries back into playlist files.
//
// Writers accept the flattened output of a resolution (see FromEvents) and
// emit M3U, PLS or XSPF. References below the directory of the output file
// are written relative to it; everything else keeps its absolute URI.
package plwriter
