package index

import (
	"testing"

	"github.com/ihavespoons/shear/internal/parser"
)

const orderSource = `using System;

namespace Shop.Orders
{
    public class OrderService
    {
        public void PlaceOrder(int id)
        {
            var total = ComputeTotal(id);
            Console.WriteLine(total);
        }

        public decimal ComputeTotal(int id)
        {
            return 42.0m;
        }

        public void CancelOrder(int id)
        {
            var reason = "customer request";
        }
    }
}
`

func setupIndex(t *testing.T) *SearchIndex {
	t.Helper()
	idx, err := NewSearchIndex(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	doc, err := parser.Parse("OrderService.cs", orderSource)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if err := idx.IndexDocument(doc); err != nil {
		t.Fatalf("index failed: %v", err)
	}
	return idx
}

func TestIndexAndCount(t *testing.T) {
	idx := setupIndex(t)

	count, err := idx.DocCount()
	if err != nil {
		t.Fatalf("DocCount failed: %v", err)
	}
	if count != 3 {
		t.Errorf("doc count = %d, want 3", count)
	}
}

func TestSearchFindsBodyText(t *testing.T) {
	idx := setupIndex(t)

	results, err := idx.Search("customer request", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one hit")
	}
	if results[0].Name != "CancelOrder" {
		t.Errorf("top hit = %q, want CancelOrder", results[0].Name)
	}
	if results[0].File != "OrderService.cs" {
		t.Errorf("file = %q", results[0].File)
	}
}

func TestSearchInClass(t *testing.T) {
	idx := setupIndex(t)

	results, err := idx.SearchInClass("ComputeTotal", "OrderService", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected hits for ComputeTotal")
	}
	for _, r := range results {
		if r.ClassName != "OrderService" {
			t.Errorf("hit outside class: %q", r.ClassName)
		}
	}
}

func TestReopenExistingIndex(t *testing.T) {
	dir := t.TempDir()
	idx, err := NewSearchIndex(dir)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	doc, err := parser.Parse("OrderService.cs", orderSource)
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.IndexDocument(doc); err != nil {
		t.Fatal(err)
	}
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewSearchIndex(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	count, err := reopened.DocCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("doc count after reopen = %d, want 3", count)
	}
}
