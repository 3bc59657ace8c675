package analyzer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ihavespoons/shear/internal/cache"
	"github.com/ihavespoons/shear/internal/config"
	"github.com/ihavespoons/shear/internal/graph"
	"github.com/ihavespoons/shear/internal/parser"
	"github.com/ihavespoons/shear/internal/semantic"
	"github.com/ihavespoons/shear/internal/split"
)

// Mode selects how source files are analyzed.
type Mode string

const (
	// ModeAuto tries the external analyzer first, falls back to lexical
	ModeAuto Mode = "auto"
	// ModeSemantic uses only the external analyzer
	ModeSemantic Mode = "semantic"
	// ModeLexical uses only the built-in lexical scanner
	ModeLexical Mode = "lexical"
)

// Analyzer is the query front end. It parses source files on demand, keeps
// parsed documents for the life of the process, and optionally consults a
// compiler-backed analyzer and a persistent parse cache.
type Analyzer struct {
	mode     Mode
	sem      *semantic.Client
	store    *cache.Store
	maxLines int

	mu   sync.Mutex
	docs map[string]*parser.Document
	sets map[string]*parser.MethodSet
}

// Options configures a new Analyzer. Zero values select lexical-only
// analysis with no persistent cache.
type Options struct {
	Mode         Mode
	AnalyzerPath string
	Store        *cache.Store
	MaxFileLines int
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	mode := opts.Mode
	if mode == "" {
		mode = ModeLexical
	}
	return &Analyzer{
		mode:     mode,
		sem:      semantic.NewClient(opts.AnalyzerPath),
		store:    opts.Store,
		maxLines: opts.MaxFileLines,
		docs:     make(map[string]*parser.Document),
		sets:     make(map[string]*parser.MethodSet),
	}
}

// ClassSummary describes one class for listing output.
type ClassSummary struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
	LineCount int    `json:"line_count"`
}

// MethodSummary describes one method overload for listing output.
type MethodSummary struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
	LineCount int    `json:"line_count"`
}

// MethodBody is the full source of one overload.
type MethodBody struct {
	Signature string `json:"signature"`
	Text      string `json:"text"`
}

// document loads and parses a file, memoizing the result per path.
func (a *Analyzer) document(file string) (*parser.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if doc, ok := a.docs[file]; ok {
		return doc, nil
	}
	doc, err := parser.ParseFile(file)
	if err != nil {
		return nil, err
	}
	a.docs[file] = doc
	return doc, nil
}

// methods returns the parsed method set for a class, memoized per
// file and class.
func (a *Analyzer) methods(file string, class *parser.ClassEntity) (*parser.MethodSet, error) {
	key := file + "::" + class.Name

	a.mu.Lock()
	defer a.mu.Unlock()

	if set, ok := a.sets[key]; ok {
		return set, nil
	}
	set, err := parser.ParseMethods(class.Body, class.Declaration)
	if err != nil {
		return nil, err
	}
	for _, w := range set.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	a.sets[key] = set
	return set, nil
}

// semanticUsable reports whether the external analyzer should be attempted.
func (a *Analyzer) semanticUsable() bool {
	return (a.mode == ModeAuto || a.mode == ModeSemantic) && a.sem.Available()
}

// ListClasses returns the top-level classes of a file.
func (a *Analyzer) ListClasses(ctx context.Context, file string) ([]ClassSummary, error) {
	if a.semanticUsable() {
		infos, err := a.sem.ListClasses(ctx, file)
		if err == nil {
			out := make([]ClassSummary, len(infos))
			for i, c := range infos {
				out[i] = ClassSummary{Name: c.Name, Namespace: c.Namespace}
			}
			return out, nil
		}
		if a.mode == ModeSemantic {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Warning: semantic analyzer failed, falling back to lexical scan: %v\n", err)
	} else if a.mode == ModeSemantic {
		return nil, semantic.ErrAnalyzerNotAvailable
	}

	doc, err := a.document(file)
	if err != nil {
		return nil, err
	}
	out := make([]ClassSummary, len(doc.Classes))
	for i, c := range doc.Classes {
		out[i] = ClassSummary{Name: c.Name, Namespace: doc.Namespace, LineCount: c.LineCount}
	}
	return out, nil
}

// ListMethods returns every overload of the target class in source order.
// Results go through the persistent cache when one is configured.
func (a *Analyzer) ListMethods(ctx context.Context, file, className string) ([]MethodSummary, error) {
	if a.semanticUsable() {
		infos, err := a.sem.ListMethods(ctx, file, className)
		if err == nil {
			out := make([]MethodSummary, len(infos))
			for i, m := range infos {
				out[i] = MethodSummary{Name: m.Name, Signature: m.Signature, LineCount: m.LineCount}
			}
			return out, nil
		}
		if a.mode == ModeSemantic {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Warning: semantic analyzer failed, falling back to lexical scan: %v\n", err)
	} else if a.mode == ModeSemantic {
		return nil, semantic.ErrAnalyzerNotAvailable
	}

	// The cache stores rows per class name, so the implicit first-class
	// default cannot be answered from it.
	if a.store != nil && className != "" {
		if cached, err := a.cachedMethods(file, className); err == nil && cached != nil {
			return cached, nil
		}
	}

	doc, class, set, err := a.resolve(file, className)
	if err != nil {
		return nil, err
	}

	out := make([]MethodSummary, len(set.Order))
	for i, m := range set.Order {
		out[i] = MethodSummary{Name: m.Name, Signature: m.Signature, LineCount: m.LineCount}
	}

	if a.store != nil {
		a.storeMethods(doc, class, set)
	}
	return out, nil
}

// GetMethodBody returns the full text of every overload of a method.
func (a *Analyzer) GetMethodBody(file, className, methodName string) ([]MethodBody, error) {
	_, _, set, err := a.resolve(file, className)
	if err != nil {
		return nil, err
	}

	overloads := set.ByName[methodName]
	if len(overloads) == 0 {
		return nil, &parser.MethodNotFoundError{Name: methodName, Available: set.Names()}
	}

	out := make([]MethodBody, len(overloads))
	for i, m := range overloads {
		out[i] = MethodBody{Signature: m.Signature, Text: m.FullText}
	}
	return out, nil
}

// BuildDependencyTree builds the bounded call tree rooted at a method.
func (a *Analyzer) BuildDependencyTree(file, className, methodName string, maxDepth int) (*graph.Node, error) {
	_, class, set, err := a.resolve(file, className)
	if err != nil {
		return nil, err
	}
	if len(set.ByName[methodName]) == 0 {
		return nil, &parser.MethodNotFoundError{Name: methodName, Available: set.Names()}
	}
	return graph.NewBuilder(class.Name, set).Build(methodName, maxDepth), nil
}

// FindMethodCallers returns the methods whose bodies call the target.
func (a *Analyzer) FindMethodCallers(file, className, methodName string) ([]graph.Caller, error) {
	_, class, set, err := a.resolve(file, className)
	if err != nil {
		return nil, err
	}
	if len(set.ByName[methodName]) == 0 {
		return nil, &parser.MethodNotFoundError{Name: methodName, Available: set.Names()}
	}
	return graph.NewBuilder(class.Name, set).FindCallers(methodName), nil
}

// GetMethodStatistics returns aggregate statistics for a method name.
func (a *Analyzer) GetMethodStatistics(file, className, methodName string) (*graph.Statistics, error) {
	_, class, set, err := a.resolve(file, className)
	if err != nil {
		return nil, err
	}
	stats := graph.NewBuilder(class.Name, set).Stats(methodName)
	if stats == nil {
		return nil, &parser.MethodNotFoundError{Name: methodName, Available: set.Names()}
	}
	return stats, nil
}

// SplitClass loads and merges the given configuration documents, then runs
// the split job they describe.
func (a *Analyzer) SplitClass(configPaths []string) (*split.JobResult, error) {
	cfg, err := config.Load(configPaths)
	if err != nil {
		return nil, err
	}
	return a.SplitJob(cfg)
}

// SplitJob runs the split job described by an already merged configuration.
func (a *Analyzer) SplitJob(cfg *config.Config) (*split.JobResult, error) {
	doc, class, set, err := a.resolve(cfg.SourceFile, cfg.TargetClassName)
	if err != nil {
		return nil, err
	}

	maxLines := cfg.MaxFileLines
	if maxLines <= 0 {
		maxLines = a.maxLines
	}

	engine := split.NewEngine(doc, class, set, maxLines)
	return split.Run(engine, split.JobOptions{
		Destination:   cfg.DestinationFolder,
		Namespace:     cfg.NewNamespace,
		CoreFileName:  cfg.MainPartialClassName,
		CoreInterface: cfg.MainInterface,
		Specs:         cfg.PartialClasses,
	})
}

// Invalidate drops in-memory and persistent state for a file. The watch loop
// calls this before re-running a job.
func (a *Analyzer) Invalidate(file string) {
	a.mu.Lock()
	delete(a.docs, file)
	for key := range a.sets {
		if strings.HasPrefix(key, file+"::") {
			delete(a.sets, key)
		}
	}
	a.mu.Unlock()

	if a.store != nil {
		if err := a.store.Invalidate(file); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to invalidate cache for %s: %v\n", file, err)
		}
	}
}

// resolve parses a file and selects the target class and its method set.
func (a *Analyzer) resolve(file, className string) (*parser.Document, *parser.ClassEntity, *parser.MethodSet, error) {
	doc, err := a.document(file)
	if err != nil {
		return nil, nil, nil, err
	}
	class, err := doc.Target(className)
	if err != nil {
		return nil, nil, nil, err
	}
	set, err := a.methods(file, class)
	if err != nil {
		return nil, nil, nil, err
	}
	return doc, class, set, nil
}

// cachedMethods returns summaries from the persistent cache when the stored
// hash still matches the file on disk.
func (a *Analyzer) cachedMethods(file, className string) ([]MethodSummary, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	rows, err := a.store.Get(file, cache.HashContent(data))
	if err != nil || rows == nil {
		return nil, err
	}

	var out []MethodSummary
	for _, r := range rows {
		if r.ClassName != className {
			continue
		}
		out = append(out, MethodSummary{Name: r.Name, Signature: r.Signature, LineCount: r.LineCount})
	}
	if out == nil {
		return nil, nil
	}
	return out, nil
}

// storeMethods writes a class inventory back to the persistent cache.
func (a *Analyzer) storeMethods(doc *parser.Document, class *parser.ClassEntity, set *parser.MethodSet) {
	rows := make([]cache.MethodRow, len(set.Order))
	for i, m := range set.Order {
		rows[i] = cache.MethodRow{
			ClassName: class.Name,
			Name:      m.Name,
			Signature: m.Signature,
			LineCount: m.LineCount,
		}
	}
	if err := a.store.Put(doc.Path, cache.HashContent([]byte(doc.Source)), rows); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to update parse cache: %v\n", err)
	}
}
