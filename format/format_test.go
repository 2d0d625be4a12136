package format

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/asfmt/actionscript/parser"
)

func formatString(t *testing.T, input string, opts Options) string {
	t.Helper()
	out, err := Source([]byte(input), opts)
	require.NoError(t, err)
	return string(out)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "basic class",
			input:    "class A {\n    var b: int;\n}",
			expected: "class A {\n    var b: int;\n}",
		},
		{
			name:     "class with modifiers",
			input:    "public class Blast {\npublic function Blast() {\n// Constructor\n}\npublic function Two() {\n}\n}",
			expected: "public class Blast {\n    public function Blast() {\n        // Constructor\n    }\n\n    public function Two() {\n    }\n}",
		},
		{
			name:  "package with multiple classes",
			input: "package {\npublic class Blast {\npublic function Blast() {\n// Constructor\n}\npublic function Two() {\n}\n}\npublic class Ast {\n}\n}",
			expected: "package {\n" +
				"    public class Blast {\n" +
				"        public function Blast() {\n" +
				"            // Constructor\n" +
				"        }\n" +
				"\n" +
				"        public function Two() {\n" +
				"        }\n" +
				"    }\n" +
				"\n" +
				"    public class Ast {\n" +
				"    }\n" +
				"}",
		},
		{
			name:  "variable declarations",
			input: "class Test {\nvar a:int=5;\nconst b:String=\"hello\";\nprivate var c:Boolean=true;\n}",
			expected: "class Test {\n" +
				"    var a: int = 5;\n" +
				"    const b: String = \"hello\";\n" +
				"    private var c: Boolean = true;\n" +
				"}",
		},
		{
			name:  "control structures",
			input: "function test() {\nif(condition){\ndoSomething();\n}else{\ndoOther();\n}\nfor(var i:int=0;i<10;i++){\ntrace(i);\n}\n}",
			expected: "function test() {\n" +
				"    if (condition) {\n" +
				"        doSomething();\n" +
				"    } else {\n" +
				"        doOther();\n" +
				"    }\n" +
				"    for (var i: int = 0; i < 10; i++) {\n" +
				"        trace(i);\n" +
				"    }\n" +
				"}",
		},
		{
			name:  "nested blocks",
			input: "class Outer {\nfunction method() {\nif(true) {\nvar x:int=1;\nif(x>0) {\ntrace(\"positive\");\n}\n}\n}\n}",
			expected: "class Outer {\n" +
				"    function method() {\n" +
				"        if (true) {\n" +
				"            var x: int = 1;\n" +
				"            if (x > 0) {\n" +
				"                trace(\"positive\");\n" +
				"            }\n" +
				"        }\n" +
				"    }\n" +
				"}",
		},
		{
			name:     "empty blocks",
			input:    "class Empty {\nfunction empty() {\n}\nfunction another() {\n\n}\n}",
			expected: "class Empty {\n    function empty() {\n    }\n\n    function another() {\n    }\n}",
		},
		{
			name:  "comments",
			input: "class CommentTest {\n// Line comment\nfunction test() {\n/* Block comment */\nvar x:int=1;// End line comment\n}\n}",
			expected: "class CommentTest {\n" +
				"    // Line comment\n" +
				"    function test() {\n" +
				"        /* Block comment */\n" +
				"        var x: int = 1; // End line comment\n" +
				"    }\n" +
				"}",
		},
		{
			name:     "if else",
			input:    "if(condition){\ndoSomething();\n}else{\ndoOther();\n}",
			expected: "if (condition) {\n    doSomething();\n} else {\n    doOther();\n}",
		},
		{
			name:     "for header stays on one line",
			input:    "for(var i:int=0;i<10;i++){\ntrace(i);\n}",
			expected: "for (var i: int = 0; i < 10; i++) {\n    trace(i);\n}",
		},
		{
			name:     "else if",
			input:    "if(a){\nx();\n}else if(b){\ny();\n}",
			expected: "if (a) {\n    x();\n} else if (b) {\n    y();\n}",
		},
		{
			name:     "bodies without braces",
			input:    "if (a) b();\nelse c();",
			expected: "if (a)\n    b();\nelse\n    c();",
		},
		{
			name:     "switch",
			input:    "switch(x){\ncase 1:\ntrace(1);\nbreak;\ndefault:\ntrace(0);\n}",
			expected: "switch (x) {\n    case 1:\n        trace(1);\n        break;\n    default:\n        trace(0);\n}",
		},
		{
			name:     "try catch finally",
			input:    "try{\nrisky();\n}catch(e:Error){\nhandle(e);\n}finally{\ndone();\n}",
			expected: "try {\n    risky();\n} catch (e: Error) {\n    handle(e);\n} finally {\n    done();\n}",
		},
		{
			name:     "do while",
			input:    "do{\nx++;\n}while(x<5);",
			expected: "do {\n    x++;\n} while (x < 5);",
		},
		{
			name:     "empty for header",
			input:    "for(;;){\n}",
			expected: "for (;;) {\n}",
		},
		{
			name:     "binary operators",
			input:    "var a=b+c*d-e/f;",
			expected: "var a = b + c * d - e / f;",
		},
		{
			name:     "unary operators",
			input:    "x=-y+!z;",
			expected: "x = -y + !z;",
		},
		{
			name:     "compound operators",
			input:    "x+=1;\ni--;\nc=a===b;\n++i;",
			expected: "x += 1;\ni--;\nc = a === b;\n++i;",
		},
		{
			name:     "ternary",
			input:    "var v=a?b:c;",
			expected: "var v = a ? b : c;",
		},
		{
			name:     "object and array literals",
			input:    "var o={a:1,b:[1,2]};",
			expected: "var o = { a: 1, b: [1, 2] };",
		},
		{
			name:     "empty literals",
			input:    "var o={};var a=[];",
			expected: "var o = {};\nvar a = [];",
		},
		{
			name:     "calls and member access",
			input:    "this.x=obj.y;\nfoo(a,b);",
			expected: "this.x = obj.y;\nfoo(a, b);",
		},
		{
			name:     "function expression",
			input:    "var f=function(a){return a;};",
			expected: "var f = function (a) { return a; };",
		},
		{
			name:  "imports",
			input: "package com.example{\nimport flash.display.Sprite;\nimport flash.events.*;\npublic class Main extends Sprite{\n}\n}",
			expected: "package com.example {\n" +
				"    import flash.display.Sprite;\n" +
				"    import flash.events.*;\n" +
				"\n" +
				"    public class Main extends Sprite {\n" +
				"    }\n" +
				"}",
		},
		{
			name:     "type arguments",
			input:    "var v:Vector.<int> = new Vector.<int>();",
			expected: "var v: Vector.<int> = new Vector.<int>();",
		},
		{
			name:     "blank lines are capped",
			input:    "var a;\n\n\n\nvar b;",
			expected: "var a;\n\nvar b;",
		},
		{
			name:     "edges are trimmed",
			input:    "\n\n  var a;  \n\n",
			expected: "var a;\n",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "  \n ",
			expected: "",
		},
		{
			name:     "comment only",
			input:    "// hi",
			expected: "// hi",
		},
		{
			name:     "bad characters keep their spacing",
			input:    "a = b # c;\nx=a&b;",
			expected: "a = b # c;\nx = a&b;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatString(t, tt.input, DefaultOptions())
			assert.Equal(t, tt.expected, result, "Formatted output does not match expected")
			again := formatString(t, result, DefaultOptions())
			assert.Equal(t, result, again, "Formatting is not idempotent")
		})
	}
}

func TestFormatOptions(t *testing.T) {
	input := "class A {\nfunction a() {\nx();\n}\nfunction b() {\n}\n}"

	t.Run("tabs", func(t *testing.T) {
		opts := DefaultOptions()
		opts.UseTabs = true
		expected := "class A {\n\tfunction a() {\n\t\tx();\n\t}\n\n\tfunction b() {\n\t}\n}"
		assert.Equal(t, expected, formatString(t, input, opts))
	})

	t.Run("indent width", func(t *testing.T) {
		opts := DefaultOptions()
		opts.IndentWidth = 2
		expected := "class A {\n  function a() {\n    x();\n  }\n\n  function b() {\n  }\n}"
		assert.Equal(t, expected, formatString(t, input, opts))
	})

	t.Run("no blank line between declarations", func(t *testing.T) {
		opts := DefaultOptions()
		opts.BlankLineBetweenDeclarations = false
		expected := "class A {\n    function a() {\n        x();\n    }\n    function b() {\n    }\n}"
		assert.Equal(t, expected, formatString(t, input, opts))
	})

	t.Run("final newline", func(t *testing.T) {
		opts := DefaultOptions()
		opts.InsertFinalNewline = true
		assert.Equal(t, "var a;\n", formatString(t, "var a;", opts))
		assert.Equal(t, "", formatString(t, "", opts))
	})

	t.Run("max blank lines", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MaxBlankLines = 2
		assert.Equal(t, "a();\n\n\nb();", formatString(t, "a();\n\n\n\n\nb();", opts))
		opts.MaxBlankLines = 0
		assert.Equal(t, "a();\nb();", formatString(t, "a();\n\n\n\n\nb();", opts))
	})
}

func TestFormatTreeMismatch(t *testing.T) {
	src := []byte("var a;")

	_, err := Format(parser.Parse(src), []byte("var bb = 1;"), DefaultOptions())
	require.ErrorIs(t, err, ErrTreeMismatch)

	_, err = Format(parser.Parse(src), []byte("var a; // more"), DefaultOptions())
	require.ErrorIs(t, err, ErrTreeMismatch)

	_, err = Format(nil, src, DefaultOptions())
	require.ErrorIs(t, err, ErrTreeMismatch)

	_, err = Format(&parser.Node{Kind: parser.KindBlock}, src, DefaultOptions())
	require.ErrorIs(t, err, ErrTreeMismatch)

	out, err := Format(parser.ParseTokens(parser.Tokenize(src)), src, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "var a;", string(out))
}

func significantTokens(src []byte) ([]parser.TokenKind, string) {
	var kinds []parser.TokenKind
	var text strings.Builder
	for _, tok := range parser.Tokenize(src) {
		if tok.Kind == parser.TokenWhitespace {
			continue
		}
		kinds = append(kinds, tok.Kind)
		text.WriteString(tok.Text(src))
	}
	return kinds, text.String()
}

func assertStable(t *testing.T, input string) {
	t.Helper()
	assertStableWith(t, input, DefaultOptions())
}

func assertStableWith(t *testing.T, input string, opts Options) {
	t.Helper()
	once, err := Source([]byte(input), opts)
	require.NoError(t, err, "input %q", input)
	twice, err := Source(once, opts)
	require.NoError(t, err, "input %q", input)
	assert.Equal(t, string(once), string(twice), "not idempotent for %q", input)

	wantKinds, wantText := significantTokens([]byte(input))
	gotKinds, gotText := significantTokens(once)
	assert.Equal(t, wantText, gotText, "tokens changed for %q", input)
	assert.Equal(t, wantKinds, gotKinds, "token kinds changed for %q", input)
}

var idempotenceInputs = []string{
	"a - -b; a + +b; x = - -y;",
	"x = a / /* c */ b;",
	"var n = 1 .toString();",
	"x=a&&b||!c;",
	"a ? b ? c : d : e;",
	"switch (x) { case a ? b : c: d(); }",
	"foo({a: 1,\n b: 2}, [3,\n4]);",
	"var f = function () {\n a();\n b();\n};",
	"if (a) // why\n{\n}",
	"class A { /* one */ /* two */ }",
	"}}}{{{",
	")))(((",
	"class { function ( : = ; } else catch",
	"\"unterminated\nstring",
	"/* unterminated\ncomment",
	"x = y\n/* trailing */",
	"label: for (;;) { break label; }",
	"a.b.c(d)[e].f = g;",
	"public static const X:int = 1, Y:int = 2;",
	"function get name():String { return _name; }",
	"x = <xml/>;",
	"a<<=1; b>>>=2; c>>=3;",
	"f(...rest);",
}

func TestFormatIdempotent(t *testing.T) {
	for _, input := range idempotenceInputs {
		assertStable(t, input)
	}
}

func TestFormatIdempotentWithFinalNewline(t *testing.T) {
	opts := DefaultOptions()
	opts.InsertFinalNewline = true
	for _, input := range idempotenceInputs {
		assertStableWith(t, input, opts)
	}

	for _, input := range []string{"\"open", "/* open", "'a\\'"} {
		out, err := Source([]byte(input), opts)
		require.NoError(t, err)
		assert.Equal(t, input, string(out), "unclosed token at EOF must not gain a newline")
	}
	out, err := Source([]byte("x = 1;"), opts)
	require.NoError(t, err)
	assert.Equal(t, "x = 1;\n", string(out))
}

func TestFormatIdempotentOnGarbage(t *testing.T) {
	alphabet := []string{
		"{", "}", "(", ")", "[", "]", ";", ",", ":", "?", "=", ".", "+", "-",
		"!", "<", ">", "/", "*", "&", "|", "#",
		"class", "function", "var", "if", "else", "for", "while", "do",
		"switch", "case", "default", "try", "catch", "return", "public",
		"x", "1", "\"s\"", "//c\n", "/*c*/", " ", "\n", "\n\n\n",
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 300; i++ {
		var sb strings.Builder
		n := rng.Intn(40)
		for j := 0; j < n; j++ {
			sb.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		assertStable(t, sb.String())
	}
}

func TestSpacingRuleFor(t *testing.T) {
	tests := []struct {
		input string
		left  string
		right string
		rule  string
	}{
		{"for (a; b; c) {}", ";", "b", "after semicolon"},
		{"a(); b();", ";", "b", "statement start"},
		{"f(a);", "f", "(", "call parentheses"},
		{"if (a) {}", "if", "(", "after keyword"},
		{"x = -y;", "-", "y", "unary operator"},
		{"x = a + b;", "a", "+", "binary operator"},
		{"x = 1; // c", ";", "// c", "around comment"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			src := []byte(tt.input)
			items := flatten(parser.Parse(src), src)
			found := false
			for i := 1; i < len(items); i++ {
				if items[i-1].text == tt.left && items[i].text == tt.right {
					got := ruleFor(pair{a: items[i-1], b: items[i], opts: DefaultOptions()})
					assert.Equal(t, tt.rule, got)
					found = true
					break
				}
			}
			assert.True(t, found, "pair %q %q not found", tt.left, tt.right)
		})
	}
}

func TestPrinterWritesOnce(t *testing.T) {
	src := []byte("var a=1;\n")
	var buf bytes.Buffer
	err := NewPrinter(&buf, DefaultOptions()).Print(parser.Parse(src), src)
	require.NoError(t, err)
	assert.Equal(t, "var a = 1;\n", buf.String())
}
