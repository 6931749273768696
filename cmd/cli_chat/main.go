package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"gitgpt/internal/catalog"
	"gitgpt/internal/config"
	"gitgpt/internal/domain"
	"gitgpt/internal/llm"
	"gitgpt/internal/service"
	"gitgpt/internal/termui"
)

const helpText = `Comandos:
  /import        listar repositorios para vincular
  /select <id>   vincular un repositorio
  /reset         vaciar la conversación
  /quit          salir`

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	completer := llm.NewCompletionClient(cfg.CompletionURL, cfg.CompletionTimeout, nil)
	chatSvc := service.NewChatService(logger, service.NewMemorySessionStore(), completer, catalog.Default(), service.ChatOptions{
		RepositoryDelay:       cfg.RepositoryDelay,
		RepositorySelectDelay: cfg.RepositorySelectDelay,
	})

	repl, err := newChatREPL(chatSvc, termui.Renderer{Highlight: true}, logger, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	repl.run(ctx, os.Stdin)
}

type chatREPL struct {
	chat      *service.ChatService
	renderer  termui.Renderer
	logger    *zap.Logger
	out       io.Writer
	sessionID string
}

func newChatREPL(chat *service.ChatService, renderer termui.Renderer, logger *zap.Logger, out io.Writer) (*chatREPL, error) {
	session, err := chat.CreateSession()
	if err != nil {
		return nil, err
	}
	return &chatREPL{
		chat:      chat,
		renderer:  renderer,
		logger:    logger,
		out:       out,
		sessionID: session.ID,
	}, nil
}

// run lee líneas hasta EOF o /quit.
func (r *chatREPL) run(ctx context.Context, in io.Reader) {
	reader := bufio.NewReader(in)

	fmt.Fprintln(r.out, "===== GitGPT =====")
	fmt.Fprintln(r.out, helpText)

	for {
		fmt.Fprint(r.out, "\n> ")
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" && !r.handle(ctx, line) {
			return
		}
		if err != nil {
			return
		}
	}
}

// handle ejecuta una línea; devuelve false para terminar.
func (r *chatREPL) handle(ctx context.Context, line string) bool {
	var (
		msgs  []domain.Message
		err   error
		typed bool
	)
	switch {
	case line == "/quit":
		return false
	case line == "/help":
		fmt.Fprintln(r.out, helpText)
		return true
	case line == "/reset":
		if err := r.chat.Reset(r.sessionID); err != nil {
			fmt.Fprintln(r.out, "reset:", err)
		}
		return true
	case line == "/import":
		msgs, err = r.chat.ImportRepository(r.sessionID)
	case strings.HasPrefix(line, "/select"):
		msgs, err = r.chat.SelectRepository(ctx, r.sessionID, strings.TrimSpace(strings.TrimPrefix(line, "/select")))
	default:
		msgs, err = r.chat.Send(ctx, r.sessionID, line)
		typed = true
	}

	if errors.Is(err, service.ErrRepositoryNotFound) {
		fmt.Fprintln(r.out, "Repositorio desconocido. Usa /import para ver la lista.")
		return true
	}
	if err != nil {
		r.logger.Error("chat failed", zap.Error(err))
		return true
	}

	// Lo escrito por el usuario ya está en pantalla; los mensajes que genera un comando no.
	if typed && len(msgs) > 0 && msgs[0].Role == domain.RoleUser {
		msgs = msgs[1:]
	}
	for _, m := range msgs {
		fmt.Fprint(r.out, "\n"+r.renderer.Message(m))
	}
	return true
}
