package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ihavespoons/shear/internal/cache"
	"github.com/ihavespoons/shear/internal/config"
	"github.com/ihavespoons/shear/internal/parser"
	"github.com/ihavespoons/shear/internal/split"
)

const managerSource = `using System;
using System.Threading.Tasks;

namespace Legacy.Services
{
    public class UserManager
    {
        public async Task<User> GetUserAsync(int id)
        {
            var user = GetUser(id);
            return await Task.FromResult(user);
        }

        public User GetUser(int id)
        {
            return Lookup(id);
        }

        public User Lookup(int id)
        {
            return null;
        }

        public void DeleteUser(int id)
        {
            var user = GetUser(id);
        }
    }
}
`

func writeSource(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "UserManager.cs")
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestListClassesLexical(t *testing.T) {
	a := New(Options{Mode: ModeLexical})
	path := writeSource(t, managerSource)

	classes, err := a.ListClasses(context.Background(), path)
	if err != nil {
		t.Fatalf("ListClasses failed: %v", err)
	}
	if len(classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(classes))
	}
	if classes[0].Name != "UserManager" || classes[0].Namespace != "Legacy.Services" {
		t.Errorf("unexpected class: %+v", classes[0])
	}
}

func TestListMethodsOrder(t *testing.T) {
	a := New(Options{Mode: ModeLexical})
	path := writeSource(t, managerSource)

	methods, err := a.ListMethods(context.Background(), path, "UserManager")
	if err != nil {
		t.Fatalf("ListMethods failed: %v", err)
	}
	want := []string{"GetUserAsync", "GetUser", "Lookup", "DeleteUser"}
	if len(methods) != len(want) {
		t.Fatalf("expected %d methods, got %d", len(want), len(methods))
	}
	for i, name := range want {
		if methods[i].Name != name {
			t.Errorf("method[%d] = %q, want %q", i, methods[i].Name, name)
		}
	}
}

func TestListMethodsUsesCache(t *testing.T) {
	store, err := cache.NewStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = store.Close() }()

	a := New(Options{Mode: ModeLexical, Store: store})
	path := writeSource(t, managerSource)

	first, err := a.ListMethods(context.Background(), path, "UserManager")
	if err != nil {
		t.Fatal(err)
	}

	// A fresh analyzer sharing the store must answer from the cache.
	b := New(Options{Mode: ModeLexical, Store: store})
	second, err := b.ListMethods(context.Background(), path, "UserManager")
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("cache returned %d methods, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("cache row %d = %+v, want %+v", i, second[i], first[i])
		}
	}
}

func TestGetMethodBody(t *testing.T) {
	a := New(Options{Mode: ModeLexical})
	path := writeSource(t, managerSource)

	bodies, err := a.GetMethodBody(path, "", "GetUser")
	if err != nil {
		t.Fatalf("GetMethodBody failed: %v", err)
	}
	if len(bodies) != 1 {
		t.Fatalf("expected 1 overload, got %d", len(bodies))
	}
	if bodies[0].Signature != "public User GetUser(int id)" {
		t.Errorf("signature = %q", bodies[0].Signature)
	}
}

func TestGetMethodBodyUnknown(t *testing.T) {
	a := New(Options{Mode: ModeLexical})
	path := writeSource(t, managerSource)

	_, err := a.GetMethodBody(path, "", "Nope")
	var notFound *parser.MethodNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected MethodNotFoundError, got %v", err)
	}
	if len(notFound.Available) != 4 {
		t.Errorf("available = %v", notFound.Available)
	}
}

func TestBuildDependencyTree(t *testing.T) {
	a := New(Options{Mode: ModeLexical})
	path := writeSource(t, managerSource)

	tree, err := a.BuildDependencyTree(path, "", "GetUserAsync", 3)
	if err != nil {
		t.Fatalf("BuildDependencyTree failed: %v", err)
	}
	if tree.MethodName != "GetUserAsync" {
		t.Errorf("root = %q", tree.MethodName)
	}
	if len(tree.Children) != 1 || tree.Children[0].MethodName != "GetUser" {
		t.Fatalf("unexpected children: %+v", tree.Children)
	}
	if len(tree.Children[0].Children) != 1 || tree.Children[0].Children[0].MethodName != "Lookup" {
		t.Errorf("depth-2 children: %+v", tree.Children[0].Children)
	}
}

func TestFindMethodCallers(t *testing.T) {
	a := New(Options{Mode: ModeLexical})
	path := writeSource(t, managerSource)

	callers, err := a.FindMethodCallers(path, "", "GetUser")
	if err != nil {
		t.Fatalf("FindMethodCallers failed: %v", err)
	}
	if len(callers) != 2 {
		t.Fatalf("expected 2 callers, got %d", len(callers))
	}
	if callers[0].MethodName != "GetUserAsync" || callers[1].MethodName != "DeleteUser" {
		t.Errorf("callers = %+v", callers)
	}
}

func TestGetMethodStatistics(t *testing.T) {
	a := New(Options{Mode: ModeLexical})
	path := writeSource(t, managerSource)

	stats, err := a.GetMethodStatistics(path, "", "GetUser")
	if err != nil {
		t.Fatalf("GetMethodStatistics failed: %v", err)
	}
	if stats.OverloadCount != 1 {
		t.Errorf("overloads = %d", stats.OverloadCount)
	}
	if len(stats.Dependencies) != 1 || stats.Dependencies[0] != "Lookup" {
		t.Errorf("dependencies = %v", stats.Dependencies)
	}
	if stats.CallFrequency["Lookup"] != 1 {
		t.Errorf("call frequency = %v", stats.CallFrequency)
	}
}

func TestSplitClassEndToEnd(t *testing.T) {
	a := New(Options{Mode: ModeLexical})
	srcPath := writeSource(t, managerSource)
	dest := filepath.Join(t.TempDir(), "out")

	cfgPath := filepath.Join(t.TempDir(), "job.json")
	cfg, err := json.Marshal(map[string]interface{}{
		"sourceFile":           srcPath,
		"destinationFolder":    dest,
		"newNamespace":         "Refactored.Services",
		"mainPartialClassName": "UserManager.Core.cs",
		"partialClasses": []map[string]interface{}{
			{"fileName": "UserManager.Reads.cs", "methods": []string{"GetUserAsync", "GetUser", "Lookup"}},
			{"fileName": "UserManager.Writes.cs", "methods": []string{"DeleteUser"}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, cfg, 0644); err != nil {
		t.Fatal(err)
	}

	result, err := a.SplitClass([]string{cfgPath})
	if err != nil {
		t.Fatalf("SplitClass failed: %v", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 partial files, got %d", len(result.Files))
	}
	if result.MethodsOut != 4 {
		t.Errorf("methods distributed = %d, want 4", result.MethodsOut)
	}
	if _, err := os.Stat(result.CoreFile); err != nil {
		t.Errorf("core file missing: %v", err)
	}
}

func TestSplitJobFromMergedConfig(t *testing.T) {
	// Callers that already hold a merged configuration run the job
	// directly, without reloading the documents from disk.
	a := New(Options{Mode: ModeLexical})
	srcPath := writeSource(t, managerSource)
	dest := filepath.Join(t.TempDir(), "out")

	cfg := &config.Config{
		SourceFile:           srcPath,
		TargetClassName:      "UserManager",
		DestinationFolder:    dest,
		NewNamespace:         "Refactored.Services",
		MainPartialClassName: "UserManager.Core.cs",
		PartialClasses: []split.Spec{
			{FileName: "UserManager.Reads.cs", Methods: []string{"GetUserAsync", "GetUser", "Lookup"}},
			{FileName: "UserManager.Writes.cs", Methods: []string{"DeleteUser"}},
		},
	}

	result, err := a.SplitJob(cfg)
	if err != nil {
		t.Fatalf("SplitJob failed: %v", err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 partial files, got %d", len(result.Files))
	}
	if _, err := os.Stat(result.CoreFile); err != nil {
		t.Errorf("core file missing: %v", err)
	}
}

func TestInvalidateDropsMemoizedDocument(t *testing.T) {
	a := New(Options{Mode: ModeLexical})
	path := writeSource(t, managerSource)

	if _, err := a.ListMethods(context.Background(), path, "UserManager"); err != nil {
		t.Fatal(err)
	}

	rewritten := `namespace N
{
    public class UserManager
    {
        public void Only()
        {
            var x = 1;
        }
    }
}
`
	if err := os.WriteFile(path, []byte(rewritten), 0644); err != nil {
		t.Fatal(err)
	}
	a.Invalidate(path)

	methods, err := a.ListMethods(context.Background(), path, "UserManager")
	if err != nil {
		t.Fatal(err)
	}
	if len(methods) != 1 || methods[0].Name != "Only" {
		t.Errorf("stale parse survived invalidation: %+v", methods)
	}
}
