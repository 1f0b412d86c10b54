package lexer

import (
	"fmt"

	"github.com/jinko-lang/jinko/internal/diagnostics"
	"github.com/jinko-lang/jinko/internal/pipeline"
	"github.com/jinko-lang/jinko/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.TokenStream = New(ctx.SourceCode).Tokenize()
	for _, tok := range ctx.TokenStream {
		if tok.Type != token.ILLEGAL {
			continue
		}
		msg := fmt.Sprintf("unexpected character %q", tok.Lexeme)
		if s, ok := tok.Literal.(string); ok && s != tok.Lexeme {
			msg = s
		}
		err := diagnostics.NewError(diagnostics.ErrP001, tok, msg)
		err.File = ctx.FilePath
		ctx.Errors = append(ctx.Errors, err)
	}
	return ctx
}
