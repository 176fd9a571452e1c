package dataset

import (
	"errors"
	"sync"
	"testing"
)

func TestRegistryAddRemove(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.Add("courses", KindSections, sampleSections()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := reg.Add("campus", KindRooms, sampleRooms()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	infos := reg.List()
	want := []Info{
		{ID: "campus", Kind: KindRooms, NumRows: 1},
		{ID: "courses", Kind: KindSections, NumRows: 2},
	}
	if len(infos) != len(want) {
		t.Fatalf("List() returned %d datasets, want %d", len(infos), len(want))
	}
	for i := range want {
		if infos[i] != want[i] {
			t.Errorf("List()[%d] = %+v, want %+v", i, infos[i], want[i])
		}
	}

	if err := reg.Remove("courses"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok := reg.Snapshot().Dataset("courses"); ok {
		t.Errorf("courses still present after Remove")
	}
	if err := reg.Remove("courses"); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("second Remove() error = %v, want ErrDatasetNotFound", err)
	}
}

func TestRegistryAddErrors(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Add("courses", KindSections, sampleSections()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	tests := []struct {
		name    string
		id      string
		kind    Kind
		rows    []Row
		wantErr error
	}{
		{name: "empty id", id: "", kind: KindSections, rows: sampleSections(), wantErr: ErrInvalidID},
		{name: "blank id", id: "   ", kind: KindSections, rows: sampleSections(), wantErr: ErrInvalidID},
		{name: "underscore", id: "my_courses", kind: KindSections, rows: sampleSections(), wantErr: ErrInvalidID},
		{name: "duplicate", id: "courses", kind: KindSections, rows: sampleSections(), wantErr: ErrDatasetExists},
		{name: "no rows", id: "other", kind: KindSections, rows: nil, wantErr: ErrEmptyDataset},
		{name: "unknown kind", id: "other", kind: Kind("books"), rows: sampleSections(), wantErr: ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Add(tt.id, tt.kind, tt.rows)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Add() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := reg.Add("mixed", KindRooms, sampleSections()); err == nil {
		t.Errorf("Add() with rows of another kind should fail")
	}
	if err := reg.Remove("bad_id"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Remove(bad_id) error = %v, want ErrInvalidID", err)
	}
}

func TestSnapshotIsStable(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Add("courses", KindSections, sampleSections()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	before := reg.Snapshot()
	if _, err := reg.Add("campus", KindRooms, sampleRooms()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := reg.Remove("courses"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if _, ok := before.Dataset("courses"); !ok {
		t.Errorf("old snapshot lost courses")
	}
	if _, ok := before.Dataset("campus"); ok {
		t.Errorf("old snapshot sees a dataset added later")
	}
	if before.Len() != 1 || reg.Snapshot().Len() != 1 {
		t.Errorf("snapshot sizes = %d, %d; want 1, 1", before.Len(), reg.Snapshot().Len())
	}
}

func TestRegistryConcurrentReaders(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Add("courses", KindSections, sampleSections()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := reg.Snapshot()
				if ds, ok := snap.Dataset("courses"); ok && len(ds.Rows) != 2 {
					t.Errorf("courses has %d rows", len(ds.Rows))
					return
				}
			}
		}()
	}
	for i := 0; i < 50; i++ {
		if _, err := reg.Add("campus", KindRooms, sampleRooms()); err != nil {
			t.Errorf("Add() error = %v", err)
		}
		if err := reg.Remove("campus"); err != nil {
			t.Errorf("Remove() error = %v", err)
		}
	}
	wg.Wait()
}

func TestRegistryPersistence(t *testing.T) {
	store := NewStore(t.TempDir())
	reg := NewRegistry(WithStore(store))

	if _, err := reg.Add("courses", KindSections, sampleSections()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := reg.Add("ubc campus", KindRooms, sampleRooms()); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	restored := NewRegistry(WithStore(store))
	if err := restored.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := restored.Snapshot().Len(); got != 2 {
		t.Fatalf("restored %d datasets, want 2", got)
	}

	ds, ok := restored.Snapshot().Dataset("courses")
	if !ok {
		t.Fatalf("courses not restored")
	}
	first, ok := ds.Rows[0].(*Section)
	if !ok {
		t.Fatalf("row is %T, want *Section", ds.Rows[0])
	}
	if *first != *sampleSections()[0].(*Section) {
		t.Errorf("restored row = %+v", *first)
	}

	rooms, ok := restored.Snapshot().Dataset("ubc campus")
	if !ok {
		t.Fatalf("id with a space not restored")
	}
	if rooms.Rows[0].(*Room).Seats != 120 {
		t.Errorf("restored seats = %v, want 120", rooms.Rows[0].(*Room).Seats)
	}

	if err := reg.Remove("courses"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := restored.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := restored.Snapshot().Dataset("courses"); ok {
		t.Errorf("removed dataset came back after reload")
	}
}

func TestLoadWithoutStore(t *testing.T) {
	if err := NewRegistry().Load(); err != nil {
		t.Errorf("Load() without store error = %v", err)
	}
}
