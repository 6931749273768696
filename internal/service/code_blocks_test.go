package service

import (
	"strings"
	"testing"

	"gitgpt/internal/domain"
)

func TestExtractCodeBlocks(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		content  string
		sections []domain.CodeSection
	}{
		{
			name:     "bloque con lenguaje",
			input:    "Here:\n```cpp\nint x = 1;\n```\nDone.",
			content:  "Here:\n[CODE_BLOCK_0]\nDone.",
			sections: []domain.CodeSection{{Language: "cpp", Code: "int x = 1;"}},
		},
		{
			name:     "sin codigo",
			input:    "no code here",
			content:  "no code here",
			sections: []domain.CodeSection{},
		},
		{
			name:    "bloques consecutivos",
			input:   "```a\nX\n``````b\nY\n```",
			content: "[CODE_BLOCK_0][CODE_BLOCK_1]",
			sections: []domain.CodeSection{
				{Language: "a", Code: "X"},
				{Language: "b", Code: "Y"},
			},
		},
		{
			name:     "sin lenguaje usa text",
			input:    "antes\n```\n  echo hi\n```",
			content:  "antes\n[CODE_BLOCK_0]",
			sections: []domain.CodeSection{{Language: "text", Code: "echo hi"}},
		},
		{
			name:     "contenido vacio",
			input:    "```\n```",
			content:  "[CODE_BLOCK_0]",
			sections: []domain.CodeSection{{Language: "text", Code: ""}},
		},
		{
			name:     "fence sin cierre queda literal",
			input:    "mira:\n```go\nfunc main() {}\n",
			content:  "mira:\n```go\nfunc main() {}\n",
			sections: []domain.CodeSection{},
		},
		{
			name:     "lenguaje con espacio no es fence",
			input:    "```go run\nx\n```",
			content:  "```go run\nx\n```",
			sections: []domain.CodeSection{},
		},
		{
			name:     "preserva espacios internos",
			input:    "```python\n\ndef f():\n    return 1\n\n```",
			content:  "[CODE_BLOCK_0]",
			sections: []domain.CodeSection{{Language: "python", Code: "def f():\n    return 1"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			content, sections := ExtractCodeBlocks(tc.input)
			if content != tc.content {
				t.Fatalf("content mismatch:\nwant %q\ngot  %q", tc.content, content)
			}
			if sections == nil {
				t.Fatalf("expected non-nil sections")
			}
			if len(sections) != len(tc.sections) {
				t.Fatalf("expected %d sections, got %d: %+v", len(tc.sections), len(sections), sections)
			}
			for i := range sections {
				if sections[i] != tc.sections[i] {
					t.Fatalf("section %d mismatch: want %+v got %+v", i, tc.sections[i], sections[i])
				}
			}
		})
	}
}

func TestExtractCodeBlocks_RoundTrip(t *testing.T) {
	input := "intro\n```go\nfmt.Println(1)\n```\nmedio\n```js\nconsole.log(2)\n```\nfin"
	content, sections := ExtractCodeBlocks(input)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}

	rebuilt := content
	for i, s := range sections {
		if !strings.Contains(rebuilt, CodeBlockPlaceholder(i)) {
			t.Fatalf("missing placeholder %d in %q", i, rebuilt)
		}
		rebuilt = strings.Replace(rebuilt, CodeBlockPlaceholder(i), "```"+s.Language+"\n"+s.Code+"\n```", 1)
	}
	if rebuilt != input {
		t.Fatalf("round trip mismatch:\nwant %q\ngot  %q", input, rebuilt)
	}
}

func TestExtractCodeBlocks_IndicesAreDense(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 12; i++ {
		b.WriteString("p\n```x\nc\n```\n")
	}
	content, sections := ExtractCodeBlocks(b.String())
	if len(sections) != 12 {
		t.Fatalf("expected 12 sections, got %d", len(sections))
	}
	idx := 0
	for i := 0; i < 12; i++ {
		p := strings.Index(content[idx:], CodeBlockPlaceholder(i))
		if p == -1 {
			t.Fatalf("placeholder %d missing or out of order", i)
		}
		idx += p
	}
}
