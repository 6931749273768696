// Package termui dibuja los nodos de un mensaje en la terminal.
package termui

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"gitgpt/internal/domain"
)

var (
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238")).
			Padding(0, 1).
			Bold(true)

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Width(4).
			Align(lipgloss.Right).
			MarginRight(1)

	blockStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// CodeBlock renderiza una sección con badge de lenguaje y números de línea.
// Highlight desactivado deja el código sin secuencias ANSI.
func CodeBlock(section domain.CodeSection, highlight bool) string {
	language := section.Language
	if language == "" {
		language = domain.DefaultCodeLanguage
	}

	code := section.Code
	if highlight {
		code = highlightCode(code, language)
	}

	lines := strings.Split(code, "\n")
	rendered := make([]string, 0, len(lines))
	for i, line := range lines {
		rendered = append(rendered, lineNumberStyle.Render(strconv.Itoa(i+1))+line)
	}

	return blockStyle.Render(badgeStyle.Render(language) + "\n" + strings.Join(rendered, "\n"))
}

// highlightCode aplica resaltado ANSI con chroma; ante cualquier fallo devuelve el código tal cual.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
