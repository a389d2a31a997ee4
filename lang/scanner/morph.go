package scanner

import "github.com/mna/wisp/lang/token"

// Morph collapses any maximal run of consecutive Line tokens into a single
// one, so the parser never has to special-case empty statements between
// blank lines. The EOF token, if the run extends up to it, is preserved.
func Morph(toks []token.Token) []token.Token {
	morphed := make([]token.Token, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind == token.LINE && len(morphed) > 0 && morphed[len(morphed)-1].Kind == token.LINE {
			continue
		}
		morphed = append(morphed, tok)
	}
	return morphed
}
