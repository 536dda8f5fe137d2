package lsp

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/parser"
	"github.com/bract-lang/bract/internal/sema"
)

// ErrUnknownDocument is returned for operations against an unopened URI.
var ErrUnknownDocument = errors.New("unknown document")

// Document is one open editor buffer plus the analysis of its last text.
type Document struct {
	URI     string
	Text    string
	Version int

	// filled by AnalyzeDocument, nil until the first analysis
	Module   *ast.Module
	Analysis *sema.Result
	Interner *intern.Interner
}

// DocumentStore tracks open documents for the server. Safe for use from
// multiple handler goroutines.
type DocumentStore struct {
	mu   sync.Mutex
	docs map[string]*Document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// UpdateDocument replaces the document's text. Versions only move
// forward; a stale version is ignored so late didChange notifications
// cannot clobber newer text.
func (s *DocumentStore) UpdateDocument(uri, text string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[uri]
	if !ok {
		s.docs[uri] = &Document{URI: uri, Text: text, Version: version}
		return
	}
	if version < doc.Version {
		return
	}
	doc.Text = text
	doc.Version = version
	doc.Module = nil
	doc.Analysis = nil
	doc.Interner = nil
}

// GetDocument returns the current text of an open document.
func (s *DocumentStore) GetDocument(uri string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return "", errors.Wrap(ErrUnknownDocument, uri)
	}
	return doc.Text, nil
}

// CloseDocument drops the document and its analysis.
func (s *DocumentStore) CloseDocument(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// AnalyzeDocument parses and analyzes the document's current text and
// returns the combined diagnostics in source order.
func (s *DocumentStore) AnalyzeDocument(uri string) ([]diag.Diagnostic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[uri]
	if !ok {
		return nil, errors.Wrap(ErrUnknownDocument, uri)
	}

	p := parser.New([]byte(doc.Text), parser.WithFilename(uri))
	doc.Module = p.ParseModule()
	doc.Interner = p.Interner()

	analyzer := sema.NewAnalyzer(doc.Interner, sema.Config{Filename: uri, WarnUnused: true})
	doc.Analysis = analyzer.Analyze(doc.Module)

	diags := append([]diag.Diagnostic{}, p.Errors()...)
	diags = append(diags, doc.Analysis.Diagnostics...)
	return diags, nil
}

// snapshot returns the analyzed document for position queries, running
// the analysis first if the text changed since the last one.
func (s *DocumentStore) snapshot(uri string) (*Document, error) {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	analyzed := ok && doc.Analysis != nil
	s.mu.Unlock()

	if !ok {
		return nil, errors.Wrap(ErrUnknownDocument, uri)
	}
	if !analyzed {
		if _, err := s.AnalyzeDocument(uri); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[uri], nil
}
