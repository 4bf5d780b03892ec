package gallery

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Gallery {
	t.Helper()
	g, err := Open(filepath.Join(t.TempDir(), "gallery.db"))
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	require.NoError(t, g.Seed(context.Background()))
	return g
}

func TestDatabaseCodes(t *testing.T) {
	codes := databaseCodes()
	assert.Len(t, codes, 1+6+96+1)
	assert.Equal(t, "0000", codes[0])
	assert.Equal(t, "000A", codes[1])
	assert.Equal(t, "00A0", codes[7])
	assert.Equal(t, "0A00", codes[len(codes)-1])
}

func TestSeedIsIdempotent(t *testing.T) {
	g := openTest(t)
	ctx := context.Background()
	require.NoError(t, g.Seed(ctx))

	all, err := g.List(ctx, CollectionDatabase)
	require.NoError(t, err)
	assert.Len(t, all, 104)
	assert.Equal(t, "0000.png", all[0].Name)
	assert.Equal(t, "/kolam/1-5-1/0000.png", all[0].URL)

	pulli, err := g.List(ctx, CollectionPulli)
	require.NoError(t, err)
	assert.Len(t, pulli, 10)

	styles, err := g.List(ctx, CollectionStyles)
	require.NoError(t, err)
	require.Len(t, styles, 4)
	assert.Equal(t, "/gallery/pulli", styles[0].Link)

	recreate, err := g.List(ctx, CollectionRecreate)
	require.NoError(t, err)
	assert.Len(t, recreate, 7)
}

func TestSearch(t *testing.T) {
	g := openTest(t)
	ctx := context.Background()

	tests := []struct {
		query string
		want  int
	}{
		{"", 104},
		{"   ", 104},
		{"00a1", 1},
		{"  00A1 ", 1},
		// 000A, 00A0-00AF, 00BA 00CA 00DA 00EA 00FA and 0A00.
		{"A", 1 + 16 + 5 + 1},
		{"ff", 1},
		{"zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := g.Search(ctx, CollectionDatabase, tt.query)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestSearchOtherCollection(t *testing.T) {
	g := openTest(t)
	got, err := g.Search(context.Background(), CollectionPulli, "11.42.09")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRecentDesigns(t *testing.T) {
	g := openTest(t)
	ctx := context.Background()

	require.NoError(t, g.RecordDesign(ctx, "1-5-1", "A000"))
	require.NoError(t, g.RecordDesign(ctx, "1-7-1", "123456789"))
	require.NoError(t, g.RecordDesign(ctx, "1-5-1", "FFFF"))

	got, err := g.RecentDesigns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "FFFF", got[0].Code)
	assert.Equal(t, "1-7-1", got[1].Variant)
	assert.False(t, got[0].Created.IsZero())
}

func TestRecreateSamples(t *testing.T) {
	urls := RecreateSamples()
	require.Len(t, urls, 7)
	assert.Equal(t, "/rectreate_kolams/10.jpg", urls[0])
}
