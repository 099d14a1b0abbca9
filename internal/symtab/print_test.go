package symtab

import (
	"bytes"
	"strings"
	"testing"

	"github.com/andaur/scc/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestPrintListsSymbolsSortedByName(t *testing.T) {
	cxt := types.NewContext()
	i32 := cxt.BasicType(cxt.PublicSecType(), cxt.BuiltinType(types.Int32), 0)

	scope := NewScope(nil)
	scope.Declare(NewVariable(cxt, "zeta", i32))
	scope.Declare(NewVariable(cxt, "alpha", i32))

	var buf bytes.Buffer
	Print(&buf, scope)
	out := buf.String()

	alphaIdx := strings.Index(out, "alpha")
	zetaIdx := strings.Index(out, "zeta")
	require.GreaterOrEqual(t, alphaIdx, 0)
	require.GreaterOrEqual(t, zetaIdx, 0)
	require.Less(t, alphaIdx, zetaIdx, "symbols are printed in sorted order")
}
