// Package ui serves a browser playground for the formatter: paste or load
// ActionScript, then format it or inspect its tokens, tree and outline.
package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/asfmt/actionscript/codebase"
	"github.com/dhamidi/asfmt/actionscript/outline"
	"github.com/dhamidi/asfmt/actionscript/parser"
	"github.com/dhamidi/asfmt/config"
	"github.com/dhamidi/asfmt/format"
)

//go:embed static templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("asfmt.ui")

// maxSourceSize bounds request bodies.
const maxSourceSize = 4 << 20

type Server struct {
	codebase   *codebase.Codebase
	staticFS   fs.FS
	templateFS fs.FS
	funcMap    template.FuncMap
	mux        *http.ServeMux
}

// NewServer creates a playground. cb may be nil; when set, its files can
// be opened from the sidebar.
func NewServer(cb *codebase.Codebase) (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"base": filepath.Base,
	}

	// parse once up front so broken templates fail at startup
	if _, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		codebase:   cb,
		staticFS:   staticFS,
		templateFS: templateFS,
		funcMap:    funcMap,
		mux:        http.NewServeMux(),
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("POST /api/format", s.handleFormat)
	s.mux.HandleFunc("POST /api/tokens", s.handleTokens)
	s.mux.HandleFunc("POST /api/tree", s.handleTree)
	s.mux.HandleFunc("POST /api/outline", s.handleOutline)
	s.mux.HandleFunc("GET /f/{path...}", s.handleFile)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Debugf("%s %s", r.Method, r.URL.Path)
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %s", name, err.Error())
	}
}

// Request is the body of every /api endpoint.
type Request struct {
	Source  string         `json:"source"`
	Options *config.Config `json:"options,omitempty"`
}

type FormatResponse struct {
	Formatted string `json:"formatted"`
	Changed   bool   `json:"changed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (*Request, bool) {
	var req Request
	body := http.MaxBytesReader(w, r.Body, maxSourceSize)

	if isJSON(r) {
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
			return nil, false
		}
	} else {
		data, err := io.ReadAll(body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return nil, false
		}
		req.Source = string(data)
	}

	if req.Options != nil {
		if err := req.Options.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return nil, false
		}
	}
	return &req, true
}

// isJSON reports whether the request body is JSON, ignoring media type
// parameters such as charset.
func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warningf("write response: %s", err.Error())
	}
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	src := []byte(req.Source)
	out, err := format.Source(src, req.Options.Options())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, FormatResponse{
		Formatted: string(out),
		Changed:   string(out) != req.Source,
	})
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	src := []byte(req.Source)
	w.Header().Set("Content-Type", "application/json")
	if err := format.NewTokenJSONEncoder(w).Encode(parser.Tokenize(src), src); err != nil {
		log.Warningf("encode tokens: %s", err.Error())
	}
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	src := []byte(req.Source)
	w.Header().Set("Content-Type", "application/json")
	if err := format.NewTreeJSONEncoder(w).Encode(parser.Parse(src), src); err != nil {
		log.Warningf("encode tree: %s", err.Error())
	}
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	src := []byte(req.Source)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := format.NewOutlineLineEncoder(w).Encode(outline.Of(parser.Parse(src), src)); err != nil {
		log.Warningf("encode outline: %s", err.Error())
	}
}

type PageData struct {
	Files      []string
	ActiveFile string
	Source     string
	Options    format.Options
}

func (s *Server) files() []string {
	if s.codebase == nil {
		return nil
	}
	var files []string
	for _, p := range s.codebase.Paths() {
		if rel, err := filepath.Rel(s.codebase.RootDir(), p); err == nil {
			files = append(files, filepath.ToSlash(rel))
		}
	}
	sort.Strings(files)
	return files
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", PageData{
		Files:   s.files(),
		Source:  sample,
		Options: format.DefaultOptions(),
	})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	if s.codebase == nil {
		http.NotFound(w, r)
		return
	}
	rel := r.PathValue("path")
	path := filepath.Join(s.codebase.RootDir(), filepath.FromSlash(rel))
	f := s.codebase.GetFile(path)
	if f == nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	opts, err := s.codebase.Options(path)
	if err != nil {
		log.Warningf("options for %s: %s", path, err.Error())
		opts = format.DefaultOptions()
	}
	s.render(w, "index.html", PageData{
		Files:      s.files(),
		ActiveFile: rel,
		Source:     string(f.Content),
		Options:    opts,
	})
}

const sample = `package com.example{
import flash.display.Sprite;
public class Hello extends Sprite{
public function Hello(){
for(var i:int=0;i<3;i++){trace("hello "+i);}
}
}
}
`

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

// overlayFS serves files from primaryPath on disk when present, falling
// back to the embedded copy, so templates can be edited without a rebuild.
func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result, nil
}
