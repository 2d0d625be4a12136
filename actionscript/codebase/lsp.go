package codebase

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/asfmt/actionscript/outline"
)

const lsName = "asfmt"

var lspLog = commonlog.GetLogger("asfmt.lsp")

type LSPServer struct {
	codebase *Codebase
	handler  protocol.Handler
	server   *server.Server
	version  string
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version:  version,
		codebase: New("."),
	}

	ls.handler = protocol.Handler{
		Initialize:                     ls.initialize,
		Initialized:                    ls.initialized,
		Shutdown:                       ls.shutdown,
		SetTrace:                       ls.setTrace,
		TextDocumentDidOpen:            ls.textDocumentDidOpen,
		TextDocumentDidChange:          ls.textDocumentDidChange,
		TextDocumentDidClose:           ls.textDocumentDidClose,
		TextDocumentDidSave:            ls.textDocumentDidSave,
		TextDocumentFormatting:         ls.textDocumentFormatting,
		TextDocumentDocumentSymbol:     ls.textDocumentDocumentSymbol,
		TextDocumentFoldingRange:       ls.textDocumentFoldingRange,
		TextDocumentSemanticTokensFull: ls.textDocumentSemanticTokensFull,
		TextDocumentHover:              ls.textDocumentHover,
		TextDocumentCompletion:         ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir)
	lspLog.Infof("initializing in %s", rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     SemanticTokenTypes,
			TokenModifiers: []string{},
		},
		Full: true,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		lspLog.Warningf("scanning %s: %s", ls.codebase.RootDir(), err.Error())
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	lspLog.Info("shutting down")
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) update(ctx *glsp.Context, uri string, content []byte) {
	path, err := uriToPath(uri)
	if err != nil {
		lspLog.Warningf("bad document uri %q: %s", uri, err.Error())
		return
	}
	f := ls.codebase.UpdateFile(path, content)
	ls.publishDiagnostics(ctx, uri, f)
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri string, f *FileInfo) {
	diagnostics := []protocol.Diagnostic{}
	severity := protocol.DiagnosticSeverityWarning
	source := lsName
	for _, d := range f.Diagnostics {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toRange(f, d.Span.Start, d.Span.End),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.update(ctx, params.TextDocument.URI, []byte(textChange.Text))
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	// drop unsaved edits
	if err := ls.codebase.ScanFile(path); err != nil {
		ls.codebase.RemoveFile(path)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, []byte(*params.Text))
		return nil
	}
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if err := ls.codebase.ScanFile(path); err != nil {
		lspLog.Warningf("rescanning %s: %s", path, err.Error())
	}
	return nil
}

func (ls *LSPServer) file(uri string) *FileInfo {
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	return ls.codebase.GetFile(path)
}

func (ls *LSPServer) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	f := ls.file(params.TextDocument.URI)
	if f == nil {
		return nil, nil
	}
	out, changed, err := ls.codebase.Format(f.Path)
	if err != nil {
		lspLog.Warningf("%s", err.Error())
		return nil, nil
	}
	if !changed {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{
		Range:   toRange(f, 0, len(f.Content)),
		NewText: string(out),
	}}, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	f := ls.file(params.TextDocument.URI)
	if f == nil {
		return nil, nil
	}
	return documentSymbols(f, f.Symbols), nil
}

func documentSymbols(f *FileInfo, symbols []*outline.Symbol) []protocol.DocumentSymbol {
	result := []protocol.DocumentSymbol{}
	for _, s := range symbols {
		name := s.Name
		if name == "" {
			name = "(anonymous)"
		}
		d := detail(s)
		result = append(result, protocol.DocumentSymbol{
			Name:           name,
			Detail:         &d,
			Kind:           symbolKind(s.Kind),
			Range:          toRange(f, s.Span.Start, s.Span.End),
			SelectionRange: toRange(f, s.NameSpan.Start, s.NameSpan.End),
			Children:       documentSymbols(f, s.Children),
		})
	}
	return result
}

func symbolKind(k outline.Kind) protocol.SymbolKind {
	switch k {
	case outline.KindPackage:
		return protocol.SymbolKindPackage
	case outline.KindImport:
		return protocol.SymbolKindModule
	case outline.KindClass:
		return protocol.SymbolKindClass
	case outline.KindInterface:
		return protocol.SymbolKindInterface
	case outline.KindFunction:
		return protocol.SymbolKindFunction
	case outline.KindGetter, outline.KindSetter:
		return protocol.SymbolKindProperty
	case outline.KindConstant:
		return protocol.SymbolKindConstant
	}
	return protocol.SymbolKindVariable
}

func (ls *LSPServer) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	f := ls.file(params.TextDocument.URI)
	if f == nil {
		return nil, nil
	}
	ranges := []protocol.FoldingRange{}
	for _, fold := range FoldingRanges(f) {
		ranges = append(ranges, protocol.FoldingRange{
			StartLine: protocol.UInteger(fold.StartLine),
			EndLine:   protocol.UInteger(fold.EndLine),
		})
	}
	return ranges, nil
}

func (ls *LSPServer) textDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	f := ls.file(params.TextDocument.URI)
	if f == nil {
		return nil, nil
	}
	encoded := EncodeSemanticTokens(f)
	data := make([]protocol.UInteger, len(encoded))
	for i, v := range encoded {
		data[i] = protocol.UInteger(v)
	}
	return &protocol.SemanticTokens{Data: data}, nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	f := ls.file(params.TextDocument.URI)
	if f == nil {
		return nil, nil
	}
	offset := f.Lines.OffsetOf(int(params.Position.Line), int(params.Position.Character))
	sym := ls.codebase.SymbolAt(f.Path, offset)
	if sym == nil {
		return nil, nil
	}
	r := toRange(f, sym.NameSpan.Start, sym.NameSpan.End)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "```actionscript\n" + detail(sym) + "\n```",
		},
		Range: &r,
	}, nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	f := ls.file(params.TextDocument.URI)
	if f == nil {
		return nil, nil
	}
	offset := f.Lines.OffsetOf(int(params.Position.Line), int(params.Position.Character))
	completions := ls.codebase.CompletionsAtPoint(f.Path, offset)
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		item := protocol.CompletionItem{
			Label: c.Label,
			Kind:  &kind,
		}
		if c.Detail != "" {
			d := c.Detail
			item.Detail = &d
		}
		items = append(items, item)
	}
	return items, nil
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindKeyword:
		return protocol.CompletionItemKindKeyword
	case CompletionKindClass:
		return protocol.CompletionItemKindClass
	case CompletionKindInterface:
		return protocol.CompletionItemKindInterface
	case CompletionKindFunction:
		return protocol.CompletionItemKindFunction
	default:
		return protocol.CompletionItemKindVariable
	}
}

func toPosition(f *FileInfo, offset int) protocol.Position {
	pos := f.Lines.Position(offset)
	return protocol.Position{
		Line:      protocol.UInteger(pos.Line - 1),
		Character: protocol.UInteger(f.Lines.UTF16Column(offset)),
	}
}

func toRange(f *FileInfo, start, end int) protocol.Range {
	return protocol.Range{Start: toPosition(f, start), End: toPosition(f, end)}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
