// Package filters implements the stream filters needed to read page
// content: FlateDecode (with PNG and TIFF predictors), ASCIIHexDecode,
// ASCII85Decode and CCITTFaxDecode. FlateEncode is the inverse used when
// writing documents.
//
//	decoded, err := filters.FlateDecode(data, filters.Params{"Predictor": 12, "Columns": 5})
package filters
