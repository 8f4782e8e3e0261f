// Package reader turns a PDF file into the text model: one list of text
// rows per page.
//
//	r, err := reader.Open("t-14-1-1.pdf")
//	if err != nil {
//	    return err
//	}
//	doc, err := r.Document()
//	for _, w := range r.Warnings() {
//	    log.Println(w)
//	}
//
// Pages are visited in page tree order. Before a page's content is
// tokenized, the ToUnicode CMaps of its fonts are added to a cache that
// lives as long as the Reader, so a font shared by many pages is decoded
// once.
//
// # Errors
//
// A file that cannot be parsed, or a page whose /Contents cannot be
// resolved, fails with a [*ReadError]. A content stream that fails to
// decode is skipped, and a syntax error ends the page after the rows read
// so far. Both are recorded as a [Warning]; reading continues with the
// next page.
package reader
