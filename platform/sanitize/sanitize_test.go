package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	assert.Equal(t, "Portal institucional", Text("  <b>Portal</b>\n  institucional "))
	assert.Equal(t, "a < b", Text("a &lt; b"))
	assert.Equal(t, "", Text("&lt;script&gt;"))
}

func TestMultiline_KeepsLineBreaks(t *testing.T) {
	assert.Equal(t, "linha um\nlinha dois", Multiline("<p>linha   um</p>\n  linha dois  "))
}

func TestFold(t *testing.T) {
	assert.Equal(t, Fold("Construção Civil"), Fold("construcao  civil"))
	assert.Equal(t, "transporte e logistica", Fold("Transporte e Logística"))
	assert.Equal(t, "saude", Fold("SAÚDE"))
}

func TestTextPtr(t *testing.T) {
	assert.Nil(t, TextPtr(nil))
	in := " <i>x</i> "
	assert.Equal(t, "x", *TextPtr(&in))
}
