package services

import (
	"regexp"
	"strings"

	"github.com/ochairo/mubench/internal/domain/entities"
)

// SnippetService cuts method bodies out of source files
type SnippetService struct{}

// NewSnippetService creates a new snippet service
func NewSnippetService() *SnippetService {
	return &SnippetService{}
}

// MethodSnippets returns every declaration of the named method in source,
// from its signature line to the matching closing brace. Line numbers are
// 1-based.
func (s *SnippetService) MethodSnippets(source, method string) []entities.SnippetRecord {
	name := entities.MethodName(method)
	if name == "" {
		return nil
	}
	decl := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\(`)

	lines := strings.Split(source, "\n")
	snippets := make([]entities.SnippetRecord, 0)

	for i := 0; i < len(lines); i++ {
		if !decl.MatchString(lines[i]) || !looksLikeDeclaration(lines[i]) {
			continue
		}
		end := closingLine(lines, i)
		if end < 0 {
			continue
		}
		snippets = append(snippets, entities.SnippetRecord{
			Code:            strings.Join(lines[i:end+1], "\n"),
			FirstLineNumber: i + 1,
		})
		i = end
	}
	return snippets
}

// looksLikeDeclaration excludes call sites such as "x = parse(s);"
func looksLikeDeclaration(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasSuffix(trimmed, ";") {
		return false
	}
	for _, kw := range []string{"return ", "new ", "=", "."} {
		if strings.Contains(strings.SplitN(trimmed, "(", 2)[0], kw) {
			return false
		}
	}
	return true
}

// closingLine returns the line holding the brace that closes the block
// opened at or after start, or -1
func closingLine(lines []string, start int) int {
	depth := 0
	opened := false
	for i := start; i < len(lines); i++ {
		for _, r := range lines[i] {
			switch r {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
		}
		if opened && depth <= 0 {
			return i
		}
	}
	return -1
}
