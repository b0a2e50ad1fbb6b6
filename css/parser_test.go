package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDouceur_ParseStylesheet(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		imports int
	}{
		{name: "rules", text: "div { color: red; } p { margin: 0 }"},
		{name: "import", text: "@import url('a.css');", imports: 1},
		{name: "imports", text: "@import 'a.css'; @IMPORT 'b.css'; a { b: c }", imports: 2},
		{name: "media", text: "@media print { div { color: red; } }"},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss, err := p.ParseStylesheet(tt.text)
			require.NoError(t, err)
			require.NotNil(t, ss)
			assert.Equal(t, tt.imports, ss.ImportCount())
		})
	}
}

func TestDouceur_ParseDeclarations(t *testing.T) {
	p := NewParser()

	ss, err := p.ParseDeclarations("color: red")
	require.NoError(t, err)
	assert.Zero(t, ss.ImportCount())

	ss, err = p.ParseDeclarations("color: red; margin: 0;  ")
	require.NoError(t, err)
	assert.Zero(t, ss.ImportCount())
}

func TestScanImports(t *testing.T) {
	n, err := scanImports("color: red; @import url(a.css); @Import 'b'")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = scanImports("@media; color: red")
	require.NoError(t, err)
	assert.Zero(t, n)
}
