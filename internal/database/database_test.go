package database_test

import (
	"testing"

	"github.com/bilikit/bilikit/internal/database"
)

func TestSaveDynamic(t *testing.T) {
	err := database.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		database.Close()
		database.DB = nil
	})

	err = database.CreateTables()
	if err != nil {
		t.Fatal(err)
	}

	if err := database.SaveDynamic(123, "hello world", 1, "post"); err != nil {
		t.Fatal(err)
	}

	var d struct {
		id      int64
		content string
		scene   int
		kind    string
	}
	err = database.DB.
		QueryRow(`SELECT id, content, scene, kind FROM dynamics WHERE id = 123`).
		Scan(&d.id, &d.content, &d.scene, &d.kind)

	if err != nil {
		t.Fatal(err)
	}
	if d.id != 123 {
		t.Fatalf("id - want: %v, got: %v", 123, d.id)
	}
	if d.content != "hello world" {
		t.Fatalf("content - want: %v, got: %v", "hello world", d.content)
	}
	if d.scene != 1 {
		t.Fatalf("scene - want: %v, got: %v", 1, d.scene)
	}
	if d.kind != "post" {
		t.Fatalf("kind - want: %v, got: %v", "post", d.kind)
	}
}

func TestSaveDynamicUpsert(t *testing.T) {
	if err := database.Open(":memory:"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		database.Close()
		database.DB = nil
	})
	if err := database.CreateTables(); err != nil {
		t.Fatal(err)
	}

	if err := database.SaveDynamic(7, "first", 1, "post"); err != nil {
		t.Fatal(err)
	}
	if err := database.SaveDynamic(7, "second", 1, "post"); err != nil {
		t.Fatal(err)
	}

	recent, err := database.RecentDynamics(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 {
		t.Fatalf("entries - want: 1, got: %v", len(recent))
	}
	if recent[0].Content != "second" {
		t.Fatalf("content - want: %v, got: %v", "second", recent[0].Content)
	}
}
