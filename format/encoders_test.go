package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/asfmt/actionscript/outline"
	"github.com/dhamidi/asfmt/actionscript/parser"
)

func TestTokenLineEncoder(t *testing.T) {
	src := []byte("var a\n  = 'x';")
	tokens := parser.Tokenize(src)

	var buf bytes.Buffer
	require.NoError(t, NewTokenLineEncoder(&buf).Encode(tokens, src))
	assert.Equal(t,
		"1:1\tvar\tkeyword\t\"var\"\n"+
			"1:5\tIdentifier\tidentifier\t\"a\"\n"+
			"2:3\t=\toperator\t\"=\"\n"+
			"2:5\tString\tstring\t\"'x'\"\n"+
			"2:8\t;\tpunctuation\t\";\"\n",
		buf.String())

	enc := NewTokenLineEncoder(&buf)
	enc.Trivia = true
	text, err := enc.MarshalText(tokens, src)
	require.NoError(t, err)
	assert.Equal(t, len(tokens), bytes.Count(text, []byte("\n")))
}

func TestTokenJSONEncoder(t *testing.T) {
	src := []byte("a\nb")
	text, err := NewTokenJSONEncoder(nil).MarshalText(parser.Tokenize(src), src)
	require.NoError(t, err)

	var tokens []struct {
		Kind   string `json:"kind"`
		Text   string `json:"text"`
		Start  int    `json:"start"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
	}
	require.NoError(t, json.Unmarshal(text, &tokens))
	require.Len(t, tokens, 3)
	assert.Equal(t, "b", tokens[2].Text)
	assert.Equal(t, 2, tokens[2].Start)
	assert.Equal(t, 2, tokens[2].Line)
	assert.Equal(t, 1, tokens[2].Column)
}

func TestTreeJSONEncoder(t *testing.T) {
	src := []byte("var a;")
	root := parser.Parse(src)

	var tree, full map[string]any
	text, err := NewTreeJSONEncoder(nil).MarshalText(root, src)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(text, &tree))
	assert.Equal(t, "File", tree["kind"])
	assert.NotContains(t, string(text), `"Whitespace"`)

	enc := NewTreeJSONEncoder(nil)
	enc.KeepWhitespace = true
	text, err = enc.MarshalText(root, src)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(text, &full))
	assert.Contains(t, string(text), `"text": " "`)
}

func TestOutlineLineEncoder(t *testing.T) {
	src := []byte("package com.example {\n" +
		"    public class Box {\n" +
		"        private static var count:int;\n" +
		"        public function open(lid:int, force:Boolean):void {}\n" +
		"    }\n" +
		"}\n")

	text, err := NewOutlineLineEncoder(nil).MarshalText(outline.Of(parser.Parse(src), src))
	require.NoError(t, err)
	assert.Equal(t,
		"package\tcom.example\t-\t-\tinternal\t-\n"+
			"class\tBox\t-\t-\tpublic\t-\n"+
			"var\tBox.count\tint\t-\tprivate\tstatic\n"+
			"function\tBox.open\tvoid\tint,Boolean\tpublic\t-\n",
		string(text))
}
