// Package core provides the PDF object model, a parser, and a writer.
//
// # Object Types
//
// PDF objects satisfy the [Object] interface: [Null], [Bool], [Int], [Real],
// [String], [HexString], [Name], [Array], [Dict], [*Stream] and
// [IndirectRef].
//
// # Documents
//
// A [Document] holds every object of a file in an arena keyed by
// [IndirectRef], together with the trailer. [Load] and [Parse] read classic
// cross-reference tables, cross-reference streams, hybrid files, incremental
// updates and object streams. When the cross-reference data is damaged the
// object table is rebuilt by scanning the file.
//
//	doc, err := core.Load("report.pdf")
//	if err != nil {
//	    return err
//	}
//	cat, err := doc.Catalog()
//
// [Document.RenumberFrom] and [Document.Renumber] reassign object numbers
// and rewrite references; [Document.Save] writes the document atomically.
//
// # Stream Decoding
//
// [Stream.Decode] applies the stream's filter chain. Corrupt compressed data
// yields a [*DecodeError].
package core
