// Package model holds the text model produced by the reader: a document is
// an ordered list of pages, and a page is an ordered list of text rows.
//
//	doc := &model.Document{Path: "t-14-1-1.pdf"}
//	doc.AddPage([]string{"AKESO BIOPHARMA", "Table 14.1.1"})
//	doc.Page(1).IsVoid() // false
//
// Values are built once by the reader and not modified afterwards.
package model
