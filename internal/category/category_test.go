package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"desksort/internal/category"
	"desksort/internal/model"
)

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		ext      string
		want     string
	}{
		{name: "image", fileName: "photo.jpg", ext: "jpg", want: category.Images},
		{name: "uppercase extension", fileName: "PHOTO.PNG", ext: "PNG", want: category.Images},
		{name: "leading dot", fileName: "report.pdf", ext: ".pdf", want: category.Documents},
		{name: "video", fileName: "clip.mkv", ext: "mkv", want: category.Videos},
		{name: "audio", fileName: "song.flac", ext: "flac", want: category.Audio},
		{name: "archive", fileName: "backup.7z", ext: "7z", want: category.Archives},
		{name: "code", fileName: "main.go", ext: "go", want: category.Code},
		{name: "shortcut", fileName: "Browser.lnk", ext: "lnk", want: category.Apps},
		{name: "installer package", fileName: "tool.dmg", ext: "dmg", want: category.Installers},
		{name: "setup executable", fileName: "setup.exe", ext: "exe", want: category.Installers},
		{name: "mixed case installer keyword", fileName: "Product-INSTALLER-x64.exe", ext: "EXE", want: category.Installers},
		{name: "updater executable", fileName: "update_helper.exe", ext: "exe", want: category.Installers},
		{name: "regular executable", fileName: "photo-editor.exe", ext: "exe", want: category.Apps},
		{name: "unknown extension", fileName: "data.xyz", ext: "xyz", want: category.Others},
		{name: "no extension", fileName: "Makefile", ext: "", want: category.Others},
		{name: "keyword without executable", fileName: "setup.txt", ext: "txt", want: category.Documents},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, category.CategoryFor(tt.fileName, tt.ext))
		})
	}
}

func TestCategoryFor_isDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, category.Apps, category.CategoryFor("photo-editor.exe", "exe"))
		assert.Equal(t, category.Documents, category.CategoryFor("a.docx", "docx"))
	}
}

func TestCategoryFor_everyCategoryReachable(t *testing.T) {
	reached := make(map[string]bool)
	for _, c := range category.Categories() {
		for _, ext := range c.Extensions {
			reached[category.CategoryFor("file."+ext, ext)] = true
		}
	}
	reached[category.CategoryFor("file.unknown", "unknown")] = true
	reached[category.CategoryFor("setup.exe", "exe")] = true

	for _, c := range category.Categories() {
		assert.Truef(t, reached[c.ID], "category %q not reachable", c.ID)
	}
}

func TestExtensionTable_isStable(t *testing.T) {
	first := category.ExtensionTable()
	second := category.ExtensionTable()
	assert.Equal(t, first, second)

	rebuilt := category.BuildExtensionTable(category.Categories())
	rebuiltAgain := category.BuildExtensionTable(category.Categories())
	assert.Equal(t, rebuilt, rebuiltAgain)
	assert.Equal(t, first, rebuilt)
}

func TestCategories(t *testing.T) {
	cats := category.Categories()
	require.Len(t, cats, 9)
	assert.Equal(t, category.Others, cats[len(cats)-1].ID)
	assert.Empty(t, cats[len(cats)-1].Extensions)

	// Mutating the copy leaves the table intact.
	cats[0].Extensions[0] = "zzz"
	assert.Equal(t, category.Others, category.CategoryFor("x.zzz", "zzz"))
	assert.Equal(t, category.Images, category.CategoryFor("x.jpg", "jpg"))
}

func TestByID(t *testing.T) {
	assert.Equal(t, "Documents", category.ByID(category.Documents).Name)
	assert.Equal(t, category.Others, category.ByID("missing").ID)
}

func TestCategorize(t *testing.T) {
	files := []model.FileDescriptor{
		{Name: "a.jpg", Extension: "jpg", Size: 100},
		{Name: "b.png", Extension: "png", Size: 50},
		{Name: "setup.exe", Extension: "exe", Size: 10},
		{Name: "negative.txt", Extension: "txt", Size: -1},
		{Name: "mystery", Extension: ""},
	}

	groups := category.Categorize(files)

	require.Len(t, groups, len(category.Categories()))
	assert.Len(t, groups[category.Images].Files, 2)
	assert.Equal(t, int64(150), groups[category.Images].TotalSize)
	assert.Len(t, groups[category.Installers].Files, 1)
	assert.Equal(t, int64(0), groups[category.Documents].TotalSize)
	assert.Len(t, groups[category.Others].Files, 1)

	videos := groups[category.Videos]
	require.NotNil(t, videos)
	assert.Empty(t, videos.Files)
	assert.NotNil(t, videos.Files)
	assert.Equal(t, int64(0), videos.TotalSize)
	assert.Equal(t, "Videos", videos.Category.Name)
}

func TestCategorize_empty(t *testing.T) {
	groups := category.Categorize(nil)
	for id, g := range groups {
		assert.Emptyf(t, g.Files, "category %s", id)
		assert.Zero(t, g.TotalSize)
	}
}
