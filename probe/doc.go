// Package probe finds pages that lost their letterhead.
//
// Reports rendered from RTF in several chunks sometimes come out with a
// page that has no title row, or no text at all, where two chunks were
// joined. [Check] reads a PDF and flags every page that is void or whose
// first non-blank row does not match the letterhead [Rule].
//
// [Pipeline] runs the whole audit for a set of RTF sources: large sources
// are divided into fragments, everything is converted to PDF on a bounded
// worker pool, fragments are merged back into one PDF per output, and
// each PDF is checked. Results are written with an [Exporter].
package probe
