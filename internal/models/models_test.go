package models

import (
	"testing"
)

func album(id string, year int) Album {
	return Album{
		ID:     id,
		Title:  "Album " + id,
		Artist: "Artist " + id,
		Year:   year,
		Genre:  "Unknown",
	}
}

func TestAddAlbum(t *testing.T) {
	t.Run("Appends New Album", func(t *testing.T) {
		list, added := AddAlbum(nil, album("a", 1999))
		if !added {
			t.Fatal("expected album to be added")
		}
		if len(list) != 1 {
			t.Fatalf("expected 1 album, got %d", len(list))
		}
	})

	t.Run("Duplicate Is NoOp", func(t *testing.T) {
		list, _ := AddAlbum(nil, album("a", 1999))
		list, added := AddAlbum(list, album("a", 2005))
		if added {
			t.Error("expected duplicate add to report added=false")
		}
		if len(list) != 1 {
			t.Errorf("expected length unchanged, got %d", len(list))
		}

		// adding twice more still rejects
		list, added = AddAlbum(list, album("a", 1999))
		if added || len(list) != 1 {
			t.Errorf("dedup invariant violated: added=%v len=%d", added, len(list))
		}
	})

	t.Run("Does Not Mutate Input", func(t *testing.T) {
		orig, _ := AddAlbum(nil, album("a", 1999))
		AddAlbum(orig, album("b", 2001))
		if len(orig) != 1 {
			t.Errorf("input slice mutated, len=%d", len(orig))
		}
	})
}

func TestRemoveAlbum(t *testing.T) {
	list, _ := AddAlbum(nil, album("a", 1999))
	list, _ = AddAlbum(list, album("b", 2001))

	t.Run("Removes Matching ID", func(t *testing.T) {
		out := RemoveAlbum(list, "a")
		if len(out) != 1 || out[0].ID != "b" {
			t.Errorf("unexpected result: %+v", out)
		}
	})

	t.Run("Absent ID Is Idempotent", func(t *testing.T) {
		out := RemoveAlbum(list, "missing")
		if len(out) != 2 {
			t.Errorf("expected list unchanged, got %d", len(out))
		}
	})
}

func TestMove(t *testing.T) {
	base := []Album{album("a", 1), album("b", 2), album("c", 3), album("d", 4)}

	t.Run("Moves Forward", func(t *testing.T) {
		out := Move(base, 0, 2)
		want := []string{"b", "c", "a", "d"}
		for i, id := range want {
			if out[i].ID != id {
				t.Fatalf("position %d: expected %s, got %s", i, id, out[i].ID)
			}
		}
	})

	t.Run("Moves Backward", func(t *testing.T) {
		out := Move(base, 3, 1)
		want := []string{"a", "d", "b", "c"}
		for i, id := range want {
			if out[i].ID != id {
				t.Fatalf("position %d: expected %s, got %s", i, id, out[i].ID)
			}
		}
	})

	t.Run("Same Index Is NoOp", func(t *testing.T) {
		out := Move(base, 2, 2)
		for i := range base {
			if out[i].ID != base[i].ID {
				t.Fatalf("expected order unchanged at %d", i)
			}
		}
	})

	t.Run("Out Of Range Indices Clamp", func(t *testing.T) {
		out := Move(base, -5, 99)
		want := []string{"b", "c", "d", "a"}
		for i, id := range want {
			if out[i].ID != id {
				t.Fatalf("position %d: expected %s, got %s", i, id, out[i].ID)
			}
		}
	})

	t.Run("Empty List", func(t *testing.T) {
		if out := Move(nil, 0, 1); len(out) != 0 {
			t.Errorf("expected empty result, got %d", len(out))
		}
	})
}

func TestSortByYear(t *testing.T) {
	t.Run("Ascending", func(t *testing.T) {
		list := []Album{album("a", 2010), album("b", 1995), album("c", 2003)}
		out := SortByYear(list, Ascending)
		want := []string{"b", "c", "a"}
		for i, id := range want {
			if out[i].ID != id {
				t.Fatalf("position %d: expected %s, got %s", i, id, out[i].ID)
			}
		}
	})

	t.Run("Descending", func(t *testing.T) {
		list := []Album{album("a", 2010), album("b", 1995), album("c", 2003)}
		out := SortByYear(list, Descending)
		want := []string{"a", "c", "b"}
		for i, id := range want {
			if out[i].ID != id {
				t.Fatalf("position %d: expected %s, got %s", i, id, out[i].ID)
			}
		}
	})

	t.Run("Stable On Equal Years", func(t *testing.T) {
		list := []Album{album("first", 2000), album("second", 2000), album("third", 2000)}
		out := SortByYear(list, Descending)
		want := []string{"first", "second", "third"}
		for i, id := range want {
			if out[i].ID != id {
				t.Fatalf("position %d: expected %s, got %s (stability broken)", i, id, out[i].ID)
			}
		}
	})
}

func TestRankedList(t *testing.T) {
	t.Run("Date Mode Sorts On Add", func(t *testing.T) {
		l := NewRankedList()
		l.Add(album("old", 1980))
		l.Add(album("new", 2020))
		l.Add(album("mid", 2000))

		want := []string{"new", "mid", "old"}
		for i, id := range want {
			if l.Albums[i].ID != id {
				t.Fatalf("position %d: expected %s, got %s", i, id, l.Albums[i].ID)
			}
		}
	})

	t.Run("Manual Mode Appends", func(t *testing.T) {
		l := NewRankedList()
		l.SetManualMode()
		l.Add(album("old", 1980))
		l.Add(album("new", 2020))

		if l.Albums[0].ID != "old" || l.Albums[1].ID != "new" {
			t.Errorf("expected insertion order preserved: %+v", l.Albums)
		}
	})

	t.Run("Duplicate Add Reports Not Added", func(t *testing.T) {
		l := NewRankedList()
		l.Add(album("a", 1999))
		res := l.Add(album("a", 1999))
		if res.Added {
			t.Error("expected Added=false for duplicate")
		}
		if l.Len() != 1 {
			t.Errorf("expected length 1, got %d", l.Len())
		}
	})

	t.Run("Soft Cap Does Not Truncate", func(t *testing.T) {
		l := NewRankedList()
		l.SetManualMode()
		for i := 0; i < MaxAlbums; i++ {
			l.Add(album(string(rune('A'+i/26))+string(rune('a'+i%26)), 1990+i))
		}
		if l.Len() != MaxAlbums {
			t.Fatalf("setup: expected %d albums, got %d", MaxAlbums, l.Len())
		}

		res := l.Add(album("fiftyfirst", 2024))
		if !res.Added {
			t.Fatal("51st distinct album must still be added")
		}
		if !res.OverCap {
			t.Error("expected OverCap to be reported")
		}
		if l.Len() != MaxAlbums+1 {
			t.Errorf("expected %d albums, got %d", MaxAlbums+1, l.Len())
		}
	})

	t.Run("Move Only In Manual Mode", func(t *testing.T) {
		l := NewRankedList()
		l.Add(album("a", 2010))
		l.Add(album("b", 1990))

		l.Move(0, 1) // date mode: ignored
		if l.Albums[0].ID != "a" {
			t.Error("move should be a no-op in date mode")
		}

		l.SetManualMode()
		l.Move(0, 1)
		if l.Albums[0].ID != "b" || l.Albums[1].ID != "a" {
			t.Errorf("unexpected order after move: %+v", l.Albums)
		}
	})

	t.Run("Mode Switch Freezes And Resorts", func(t *testing.T) {
		l := NewRankedList()
		l.SetManualMode()
		l.Add(album("b", 1990))
		l.Add(album("a", 2010))

		l.SetDateMode(Descending)
		if l.Albums[0].ID != "a" {
			t.Error("switching to date mode should re-sort")
		}

		l.SetManualMode()
		if l.Manual[0].ID != "a" {
			t.Error("switching to manual mode should freeze the current order")
		}
	})

	t.Run("Replace Freezes Imported Order", func(t *testing.T) {
		l := NewRankedList()
		l.Replace([]Album{album("x", 2001), album("y", 1999)})
		if l.Mode != SortModeManual {
			t.Error("replace should switch to manual mode")
		}
		if l.Albums[0].ID != "x" {
			t.Error("imported order must be preserved verbatim")
		}
	})
}
