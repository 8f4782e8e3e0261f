// Package text rebuilds the visible text rows of a page from its content
// stream.
//
// Only three things matter: the active font (Tf), the vertical component of
// the text matrix (Tm), and the strings shown by Tj, TJ, ' and ". A change
// of the vertical position larger than [RowThreshold] closes the current
// row. Literal strings are taken as they are; hex strings are glyph codes
// mapped to Unicode through the active font's ToUnicode CMap.
//
//	lines, err := text.Lines(decoded, cache)
package text
