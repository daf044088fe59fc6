package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/jdsort/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "jdsort.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleStructure() *model.Structure {
	created := time.Date(2026, 3, 1, 9, 30, 0, 123456789, time.UTC)
	return &model.Structure{
		ID:       "2b7f4c1e-0000-4000-8000-000000000001",
		Name:     "Downloads",
		RootPath: "/home/user/Downloads",
		Areas: []model.Area{
			{
				Number:      20,
				Name:        "20-29 Documents",
				Description: "Text documents, PDFs, spreadsheets",
				Categories: []model.Category{
					{
						Number: 21,
						Name:   "Reports and Documents",
						Items: []model.Item{
							{Number: "21.01", Name: "Reports and Documents Files", Files: []string{"/a.pdf", "/b.pdf"}},
						},
					},
				},
			},
			{Number: 90, Name: "90-99 Miscellaneous", Categories: []model.Category{}},
		},
		CreatedAt:  created,
		ModifiedAt: created.Add(time.Minute),
	}
}

func TestStructureRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	original := sampleStructure()
	require.NoError(t, s.SaveStructure(ctx, original))

	loaded, err := s.LoadStructure(ctx, original.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(original, loaded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveStructureAssignsIDAndTimestamps(t *testing.T) {
	s := openTestStore(t)
	fixed := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	structure := &model.Structure{Name: "fresh", RootPath: "/tmp/fresh"}
	require.NoError(t, s.SaveStructure(context.Background(), structure))

	require.NotEmpty(t, structure.ID)
	require.True(t, structure.CreatedAt.Equal(fixed))
	require.True(t, structure.ModifiedAt.Equal(fixed))

	loaded, err := s.LoadStructure(context.Background(), structure.ID)
	require.NoError(t, err)
	require.Equal(t, "fresh", loaded.Name)
}

func TestSaveStructureReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	structure := sampleStructure()
	require.NoError(t, s.SaveStructure(ctx, structure))

	structure.Name = "Renamed"
	structure.Areas = structure.Areas[:1]
	require.NoError(t, s.SaveStructure(ctx, structure))

	loaded, err := s.LoadStructure(ctx, structure.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", loaded.Name)
	require.Len(t, loaded.Areas, 1)

	summaries, err := s.ListStructures(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
}

func TestLoadStructureNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LoadStructure(context.Background(), "missing")
	require.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestListStructuresOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"old", "newest", "middle"} {
		offset := map[string]time.Duration{"old": 0, "middle": time.Hour, "newest": 2 * time.Hour}[name]
		require.NoError(t, s.SaveStructure(ctx, &model.Structure{
			ID:         name,
			Name:       name,
			RootPath:   "/r/" + name,
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
			ModifiedAt: base.Add(offset),
		}))
	}

	summaries, err := s.ListStructures(ctx)
	require.NoError(t, err)

	var names []string
	for _, summary := range summaries {
		names = append(names, summary.Name)
	}
	require.Equal(t, []string{"newest", "middle", "old"}, names)
	require.Equal(t, "/r/newest", summaries[0].RootPath)
}

func TestDeleteStructureCascadesAssignments(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	structure := sampleStructure()
	require.NoError(t, s.SaveStructure(ctx, structure))
	require.NoError(t, s.SaveAssignment(ctx, structure.ID, "/inbox/a.pdf", model.Assignment{AreaNumber: 20}))

	require.NoError(t, s.DeleteStructure(ctx, structure.ID))

	_, err := s.LoadStructure(ctx, structure.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.LoadAssignment(ctx, "/inbox/a.pdf")
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, s.DeleteStructure(ctx, structure.ID), ErrNotFound)
}

func TestAssignmentRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	fixed := time.Date(2026, 6, 7, 8, 9, 10, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	structure := sampleStructure()
	require.NoError(t, s.SaveStructure(ctx, structure))

	assignment := model.Assignment{
		AreaNumber:     20,
		CategoryNumber: 21,
		ItemNumber:     "21.01",
		Confidence:     0.85,
		Reasoning:      "File extension 'pdf' matches category 'Reports and Documents' in area 20",
	}
	require.NoError(t, s.SaveAssignment(ctx, structure.ID, "/inbox/report.pdf", assignment))

	record, err := s.LoadAssignment(ctx, "/inbox/report.pdf")
	require.NoError(t, err)
	want := &AssignmentRecord{
		FilePath:    "/inbox/report.pdf",
		StructureID: structure.ID,
		Assignment:  assignment,
		AssignedAt:  fixed,
	}
	if diff := cmp.Diff(want, record); diff != "" {
		t.Errorf("assignment mismatch (-want +got):\n%s", diff)
	}

	// A second placement of the same path replaces the first.
	assignment.ItemNumber = "21.02"
	require.NoError(t, s.SaveAssignment(ctx, structure.ID, "/inbox/report.pdf", assignment))
	records, err := s.ListAssignments(ctx, structure.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "21.02", records[0].Assignment.ItemNumber)
}

func TestSaveAssignmentRequiresStructure(t *testing.T) {
	s := openTestStore(t)
	err := s.SaveAssignment(context.Background(), "no-such-structure", "/x", model.Assignment{})
	require.Error(t, err)
}

func TestSettingsDefaultsAndRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	settings, err := s.LoadSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, model.DefaultSettings(), settings)

	settings.Theme = "dark"
	settings.ExcludedPaths = []string{".git"}
	settings.MaxFileSizeMB = 10
	require.NoError(t, s.SaveSettings(ctx, settings))

	loaded, err := s.LoadSettings(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(settings, loaded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jdsort.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, "UPDATE schema_version SET version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(ctx, path)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestOpenExistingDatabaseKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "jdsort.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SaveStructure(ctx, sampleStructure()))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = s.LoadStructure(ctx, sampleStructure().ID)
	require.NoError(t, err)
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.SaveStructure(context.Background(), sampleStructure()))
	summaries, err := s.ListStructures(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
}
