// Package font turns ToUnicode CMaps into lookup tables for text
// extraction.
//
// [BuildCMap] reads the bfchar and bfrange blocks of a decoded ToUnicode
// stream. Codes are four hex digits; a bfrange maps every code in the range
// to the same destination. [Cache] builds and keeps one CMap per font
// resource name for the lifetime of a reader.
//
//	cache := font.NewCache()
//	for _, err := range cache.Register(fonts, doc) {
//	    log.Println(err)
//	}
//	cmap, _ := cache.CMap("F1")
//	text := cmap.Decode("0003000400")
package font
