package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/ihavespoons/shear/internal/parser"
)

// SearchIndex manages the bleve full-text index over parsed method bodies.
type SearchIndex struct {
	index bleve.Index
	path  string
	mu    sync.RWMutex
}

// MethodDocument represents one method for indexing
type MethodDocument struct {
	ClassName string `json:"class_name"`
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Body      string `json:"body"`
	File      string `json:"file"`
}

// SearchResult represents a search result
type SearchResult struct {
	ClassName string  `json:"class_name"`
	Name      string  `json:"name"`
	Signature string  `json:"signature"`
	File      string  `json:"file"`
	Score     float64 `json:"score"`
	Snippet   string  `json:"snippet,omitempty"`
}

// NewSearchIndex creates or opens a search index at the given path
func NewSearchIndex(basePath string) (*SearchIndex, error) {
	indexPath := filepath.Join(basePath, "methods.bleve")

	var index bleve.Index
	var err error

	index, err = bleve.Open(indexPath)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create search index: %w", err)
		}
	} else if err != nil {
		// Try to recover by deleting and recreating
		_ = os.RemoveAll(indexPath)
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create search index: %w", err)
		}
	}

	return &SearchIndex{
		index: index,
		path:  indexPath,
	}, nil
}

// buildIndexMapping creates the bleve index mapping for method documents
func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "standard"

	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = "keyword"

	methodMapping := bleve.NewDocumentMapping()
	methodMapping.AddFieldMappingsAt("class_name", keywordFieldMapping)
	methodMapping.AddFieldMappingsAt("name", keywordFieldMapping)
	methodMapping.AddFieldMappingsAt("signature", textFieldMapping)
	methodMapping.AddFieldMappingsAt("body", textFieldMapping)
	methodMapping.AddFieldMappingsAt("file", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = methodMapping
	indexMapping.DefaultAnalyzer = "standard"

	return indexMapping
}

// docID builds a stable document ID for a method overload.
func docID(file, className, signatureKey string) string {
	return file + "::" + className + "::" + signatureKey
}

// IndexDocument indexes a parsed document's methods, replacing any previous
// entries for the same file.
func (s *SearchIndex) IndexDocument(doc *parser.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.index.NewBatch()

	for _, class := range doc.Classes {
		methods, err := parser.ParseMethods(class.Body, class.Declaration)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", class.Name, err)
		}
		for _, m := range methods.Order {
			md := MethodDocument{
				ClassName: class.Name,
				Name:      m.Name,
				Signature: m.Signature,
				Body:      m.FullText,
				File:      doc.Path,
			}
			if err := batch.Index(docID(doc.Path, class.Name, m.SignatureKey), md); err != nil {
				return fmt.Errorf("failed to index %s.%s: %w", class.Name, m.Name, err)
			}
		}
	}

	return s.index.Batch(batch)
}

// Search performs a full-text search across indexed method bodies.
func (s *SearchIndex) Search(query string, limit int) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetFuzziness(1)

	searchRequest := bleve.NewSearchRequest(matchQuery)
	searchRequest.Size = limit
	searchRequest.Fields = []string{"class_name", "name", "signature", "file"}
	searchRequest.Highlight = bleve.NewHighlight()

	searchResult, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		result := SearchResult{
			Score: hit.Score,
		}
		if v, ok := hit.Fields["class_name"].(string); ok {
			result.ClassName = v
		}
		if v, ok := hit.Fields["name"].(string); ok {
			result.Name = v
		}
		if v, ok := hit.Fields["signature"].(string); ok {
			result.Signature = v
		}
		if v, ok := hit.Fields["file"].(string); ok {
			result.File = v
		}
		if len(hit.Fragments) > 0 {
			for _, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					result.Snippet = fragments[0]
					break
				}
			}
		}
		results = append(results, result)
	}

	return results, nil
}

// SearchInClass searches within a single class.
func (s *SearchIndex) SearchInClass(query, className string, limit int) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	textQuery := bleve.NewMatchQuery(query)
	textQuery.SetFuzziness(1)

	classQuery := bleve.NewTermQuery(className)
	classQuery.SetField("class_name")

	conjunctionQuery := bleve.NewConjunctionQuery(textQuery, classQuery)

	searchRequest := bleve.NewSearchRequest(conjunctionQuery)
	searchRequest.Size = limit
	searchRequest.Fields = []string{"class_name", "name", "signature", "file"}
	searchRequest.Highlight = bleve.NewHighlight()

	searchResult, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		result := SearchResult{
			ClassName: className,
			Score:     hit.Score,
		}
		if v, ok := hit.Fields["name"].(string); ok {
			result.Name = v
		}
		if v, ok := hit.Fields["signature"].(string); ok {
			result.Signature = v
		}
		if v, ok := hit.Fields["file"].(string); ok {
			result.File = v
		}
		if len(hit.Fragments) > 0 {
			for _, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					result.Snippet = fragments[0]
					break
				}
			}
		}
		results = append(results, result)
	}

	return results, nil
}

// DocCount returns the number of indexed methods
func (s *SearchIndex) DocCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.index.DocCount()
}

// Close closes the search index
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.index.Close()
}
