package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/asfmt/actionscript/parser"
)

// TokenJSONEncoder writes a token stream as a JSON array.
type TokenJSONEncoder struct {
	w io.Writer
}

func NewTokenJSONEncoder(w io.Writer) *TokenJSONEncoder {
	return &TokenJSONEncoder{w: w}
}

func (e *TokenJSONEncoder) Encode(tokens []parser.Token, src []byte) error {
	text, err := e.MarshalText(tokens, src)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *TokenJSONEncoder) MarshalText(tokens []parser.Token, src []byte) ([]byte, error) {
	lines := parser.NewLineIndex(src)
	data := make([]jsonToken, 0, len(tokens))
	for _, tok := range tokens {
		pos := lines.Position(tok.Start)
		data = append(data, jsonToken{
			Kind:     tok.Kind.String(),
			Category: tok.Kind.Category().String(),
			Text:     tok.Text(src),
			Start:    tok.Start,
			End:      tok.End,
			Line:     pos.Line,
			Column:   pos.Column,
		})
	}
	return json.MarshalIndent(data, "", "  ")
}

type jsonToken struct {
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}
