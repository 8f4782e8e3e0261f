// Package contentstream splits PDF content streams into operations.
//
// Operands are parsed as core objects and attached to the operator that
// follows them:
//
//	parser := contentstream.NewParser(data)
//	ops, err := parser.Parse()
//	for _, op := range ops {
//	    fmt.Printf("%s %v\n", op.Operator, op.Operands)
//	}
//
// Text operators used by the line extractor are Tf (font), Tm (text
// matrix), and the show operators Tj, TJ, ' and ". Literal strings arrive
// as core.String, hex strings as core.HexString. Inline images
// (BI ... ID ... EI) are skipped and reported as a single BI operation.
package contentstream
