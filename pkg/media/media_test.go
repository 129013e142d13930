package media

import "testing"

func TestDefaultClassifier(t *testing.T) {
	c := NewClassifier(nil, nil)
	tests := []struct {
		ext  string
		want Kind
	}{
		{".jpg", Image},
		{".JPEG", Image},
		{".png", Image},
		{".HeIc", Image},
		{".mov", Video},
		{".MP4", Video},
		{".txt", Unsupported},
		{"", Unsupported},
		{".avi", Unsupported},
	}
	for _, tt := range tests {
		if got := c.Kind(tt.ext); got != tt.want {
			t.Errorf("Kind(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestCustomExtensions(t *testing.T) {
	c := NewClassifier([]string{"JPG", ".tif"}, []string{"mkv"})
	if c.Kind(".tif") != Image {
		t.Fatalf("expected .tif to be an image")
	}
	if c.Kind(".png") != Unsupported {
		t.Fatalf("custom image list should replace defaults")
	}
	if c.Kind(".MKV") != Video {
		t.Fatalf("expected .mkv to be a video")
	}
}

func TestEntry(t *testing.T) {
	c := NewClassifier(nil, nil)
	e := c.Entry("/photos/IMG_0001.JPG")
	if e.Name != "IMG_0001.JPG" || e.Ext != ".jpg" || e.Kind != Image {
		t.Fatalf("unexpected entry: %+v", e)
	}
}
