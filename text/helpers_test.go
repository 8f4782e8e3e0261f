package text

import (
	"github.com/akbstat/void-probe/contentstream"
	"github.com/akbstat/void-probe/core"
)

func opTj(s string) contentstream.Operation {
	return contentstream.Operation{Operator: "Tj", Operands: []core.Object{core.String(s)}}
}
