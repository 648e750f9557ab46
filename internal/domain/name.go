package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

// NormalizeName lleva un nombre de negocio (producto, cliente, cultura) a
// MAYÚSCULAS sin espacios sobrantes. Todo nombre se persiste y se compara en
// esta forma; así "tomate" y "Tomate " son el mismo producto.
func NormalizeName(s string) string {
	return strings.TrimSpace(upper.String(s))
}
