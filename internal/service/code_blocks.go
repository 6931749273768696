package service

import (
	"regexp"
	"strconv"
	"strings"

	"gitgpt/internal/domain"
)

// Un fence: ``` + lenguaje opcional (solo letras) + salto de línea + contenido hasta el siguiente ```.
var codeBlockPattern = regexp.MustCompile("```([a-zA-Z]*)\n([\\s\\S]*?)```")

// CodeBlockPlaceholder devuelve el token que reemplaza al bloque i dentro del contenido.
func CodeBlockPlaceholder(i int) string {
	return "[CODE_BLOCK_" + strconv.Itoa(i) + "]"
}

// ExtractCodeBlocks separa los bloques de código de la respuesta cruda del asistente.
// Cada bloque queda como [CODE_BLOCK_i] en el texto devuelto y como sections[i].
// Un fence sin cierre no es un bloque y se conserva literal. Un [CODE_BLOCK_i] que ya
// venía en el texto no se escapa, así que al renderizar apunta a sections[i].
func ExtractCodeBlocks(text string) (string, []domain.CodeSection) {
	matches := codeBlockPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, []domain.CodeSection{}
	}

	var b strings.Builder
	b.Grow(len(text))
	sections := make([]domain.CodeSection, 0, len(matches))
	last := 0

	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		b.WriteString(CodeBlockPlaceholder(len(sections)))

		language := text[m[2]:m[3]]
		if language == "" {
			language = domain.DefaultCodeLanguage
		}
		sections = append(sections, domain.CodeSection{
			Language: language,
			Code:     strings.TrimSpace(text[m[4]:m[5]]),
		})
		last = m[1]
	}

	b.WriteString(text[last:])
	return b.String(), sections
}
