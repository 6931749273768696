package termui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitgpt/internal/domain"
	"gitgpt/internal/service"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	linkedStyle    = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("24")).
			Padding(0, 1)
)

// Renderer dibuja mensajes completos.
type Renderer struct {
	Highlight bool
}

// Message devuelve el mensaje listo para imprimir, con el prefijo del rol.
func (r Renderer) Message(msg domain.Message) string {
	var b strings.Builder
	if msg.Role == domain.RoleUser {
		b.WriteString(userStyle.Render("you"))
	} else {
		b.WriteString(assistantStyle.Render("gitgpt"))
	}
	b.WriteString("\n")

	for _, node := range service.RenderMessage(msg) {
		b.WriteString(r.node(node))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func (r Renderer) node(node service.RenderNode) string {
	switch node.Type {
	case service.NodeCode:
		return CodeBlock(*node.Section, r.Highlight) + "\n"
	case service.NodeError:
		return errorStyle.Render(node.Text) + "\n"
	case service.NodeRepositoryList:
		var b strings.Builder
		b.WriteString(node.Text + "\n")
		for _, repo := range node.Repositories {
			visibility := "public"
			if repo.IsPrivate {
				visibility = "private"
			}
			fmt.Fprintf(&b, "  [%s] %s %s\n", repo.ID, repo.Name,
				mutedStyle.Render(fmt.Sprintf("(%s, %s, ★%d, forks %d)", repo.Language, visibility, repo.Stars, repo.Forks)))
		}
		return b.String()
	case service.NodeRepositoryDetail:
		if node.RepositoryName == "" {
			return node.Text + "\n"
		}
		return linkedStyle.Render("linked: "+node.RepositoryName) + "\n" + node.Text + "\n"
	default:
		return node.Text
	}
}
