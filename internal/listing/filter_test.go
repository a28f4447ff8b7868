package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albumview/pkg/types"
)

func TestFilterHidden(t *testing.T) {
	f, err := NewFilter([]string{".*", "*.xmp", "{tmp,cache}"})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{".thumbs", true},
		{"photos/.DS_Store", true},
		{"IMG_0001.xmp", true},
		{"IMG_0001.jpg", false},
		{"tmp", true},
		{"photos/cache", true},
		{"photos/cached", false},
		{"a.xmp/b.jpg", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Hidden(tt.path))
		})
	}
}

func TestFilterApplyKeepsOrder(t *testing.T) {
	f, err := NewFilter([]string{"*.xmp"})
	require.NoError(t, err)

	in := types.Listing{
		Path: "photos",
		Dirs: []types.Dir{{Path: "2020", FileCount: 3}, {Path: "old.xmp"}},
		Files: []types.File{
			{Path: "c.jpg"}, {Path: "c.xmp"}, {Path: "a.jpg"}, {Path: "b.mp4", Video: true},
		},
		HasAnyVideo: true,
	}
	out := f.Apply(in)

	assert.Equal(t, "photos", out.Path)
	assert.True(t, out.HasAnyVideo)
	assert.Equal(t, []types.Dir{{Path: "2020", FileCount: 3}}, out.Dirs)
	require.Len(t, out.Files, 3)
	assert.Equal(t, "c.jpg", out.Files[0].Path)
	assert.Equal(t, "a.jpg", out.Files[1].Path)
	assert.Equal(t, "b.mp4", out.Files[2].Path)
	assert.Len(t, in.Files, 4, "input is not modified")
}

func TestNilAndEmptyFilter(t *testing.T) {
	var f *Filter
	assert.False(t, f.Hidden("anything"))
	assert.Nil(t, f.Patterns())

	empty, err := NewFilter(nil)
	require.NoError(t, err)
	l := types.Listing{Files: []types.File{{Path: ".hidden"}}}
	assert.Len(t, empty.Apply(l).Files, 1)
}

func TestNewFilterRejectsBadPattern(t *testing.T) {
	_, err := NewFilter([]string{"[unclosed"})
	assert.Error(t, err)
}
