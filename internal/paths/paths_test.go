package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		name    string
		root    string
		segment string
		want    string
	}{
		{"root returns segment", "", "photos", "photos"},
		{"root returns nested segment unchanged", "", "photos/2020", "photos/2020"},
		{"append", "photos", "2020", "photos/2020"},
		{"parent of nested", "a/b", "..", "a"},
		{"parent of top level", "a", "..", ""},
		{"parent of root", "", "..", ""},
		{"parent with leading separator", "/a", "..", ""},
		{"no doubled separator", "a", "/b/", "a/b"},
		{"empty segment", "a", "", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.root, tt.segment))
		})
	}
}

func TestJoinRootIsIdentity(t *testing.T) {
	for _, s := range []string{"a", "a/b", "x y", "t/img.jpg", ".", "...", "/lead"} {
		assert.Equal(t, s, Join("", s), "segment %q", s)
	}
}

func TestParentAndClean(t *testing.T) {
	assert.Equal(t, "photos", Parent("photos/2020"))
	assert.Equal(t, "", Parent("photos"))
	assert.Equal(t, "", Parent(""))

	assert.Equal(t, "a/c", Clean("/a/./b/../c/"))
	assert.Equal(t, "", Clean("../../.."))
	assert.Equal(t, "b", Clean("a/../../b"))
	assert.Equal(t, "img.jpg", Base("a/b/img.jpg"))
	assert.Equal(t, "img.jpg", Base("img.jpg"))
}

func TestNormalizeSourceIdentity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photos/a.jpg", "photos/a.jpg"},
		{"t/cat.jpg", "t/cat.jpg"},
		{"thumbs/dog.jpg", "thumbs/dog.jpg"},
		{"e/t/x.jpg", "e/t/x.jpg"},
		{"trips/t/a.jpg", "trips/t/a.jpg"},
		{"/t/photos/a.jpg", "photos/a.jpg"},
		{"/thumbs/photos/a.jpg", "photos/a.jpg"},
		{"/thumbs/t/photos/a.jpg", "photos/a.jpg"},
		{"/thumbs/e/t/photos/a.jpg", "photos/a.jpg"},
		{"/thumbs/t/t/cat.jpg", "t/cat.jpg"},
		{"http://localhost:8808/t/photos/a.jpg", "photos/a.jpg"},
		{"https://album.example/e/t/photos/a.jpg", "photos/a.jpg"},
		{"http://h/thumbs/e/t/a.jpg", "a.jpg"},
		{"http://host", ""},
		{"", ""},
		{"/t/t/x.png", "t/x.png"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSourceIdentity(tt.in))
		})
	}
}

func TestNormalizeSourceIdentityIsIdempotent(t *testing.T) {
	inputs := []string{
		"", "/", "//", "t/", "e/t/", "e/t/t/e/t/a", "thumbs/t/a.jpg",
		"http://h/t/http://h2/e/t/a.jpg", "a://b", "://x", "photos/e/t/a.jpg",
		"ftp://x/y/z", "t/photos/2020/b.webm",
	}
	for _, in := range inputs {
		once := NormalizeSourceIdentity(in)
		assert.Equal(t, once, NormalizeSourceIdentity(once), "input %q", in)
	}
}

func TestThumbnailPathRoundTrip(t *testing.T) {
	for _, origin := range []string{"photos/2020/a.jpg", "t/cat.jpg", "e/t/x.jpg", "thumbs/dog.jpg"} {
		for _, encrypted := range []bool{false, true} {
			display := Separator + ThumbRoute + ThumbnailPath(origin, encrypted)
			assert.Equal(t, origin, NormalizeSourceIdentity(display), "display %q", display)
		}
	}
}
