// Package category maps file names and extensions to the fixed category taxonomy.
package category

import (
	"strings"
	"sync"

	"desksort/internal/model"
)

// Category identifiers.
const (
	Images     = "images"
	Documents  = "documents"
	Videos     = "videos"
	Audio      = "audio"
	Archives   = "archives"
	Code       = "code"
	Apps       = "apps"
	Installers = "installers"
	Others     = "others"
)

// executableExt shares one extension between installers and regular applications.
const executableExt = "exe"

// installerKeywords mark an executable as an installer when found in its name.
var installerKeywords = []string{"setup", "install", "installer", "uninstall", "update"}

// defaultCategories is the static taxonomy, in display order. Others is the catch-all.
var defaultCategories = []model.Category{
	{
		ID: Images, Name: "Images", Icon: "Image", Color: "#f472b6",
		Extensions: []string{"jpg", "jpeg", "png", "gif", "svg", "webp", "bmp", "ico", "tiff", "heic"},
	},
	{
		ID: Documents, Name: "Documents", Icon: "FileText", Color: "#3b82f6",
		Extensions: []string{"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "txt", "rtf", "odt", "ods", "odp", "csv"},
	},
	{
		ID: Videos, Name: "Videos", Icon: "Video", Color: "#f97316",
		Extensions: []string{"mp4", "avi", "mov", "mkv", "wmv", "flv", "webm", "m4v", "3gp"},
	},
	{
		ID: Audio, Name: "Audio", Icon: "Music", Color: "#8b5cf6",
		Extensions: []string{"mp3", "wav", "flac", "aac", "ogg", "wma", "m4a", "aiff"},
	},
	{
		ID: Archives, Name: "Archives", Icon: "Archive", Color: "#eab308",
		Extensions: []string{"zip", "rar", "7z", "tar", "gz", "bz2", "xz", "iso"},
	},
	{
		ID: Code, Name: "Code", Icon: "Code", Color: "#10b981",
		Extensions: []string{
			"js", "ts", "jsx", "tsx", "py", "java", "cpp", "c", "h", "cs", "php", "rb", "go", "rs",
			"swift", "kt", "html", "css", "scss", "json", "xml", "yaml", "yml", "md", "sql",
		},
	},
	{
		// Shortcuts and executables.
		ID: Apps, Name: "Apps", Icon: "AppWindow", Color: "#06b6d4",
		Extensions: []string{"lnk", "exe", "appx", "appxbundle", "msix", "msixbundle", "url"},
	},
	{
		ID: Installers, Name: "Installers", Icon: "Package", Color: "#6366f1",
		Extensions: []string{"msi", "dmg", "pkg", "deb", "rpm", "appimage"},
	},
	{
		ID: Others, Name: "Others", Icon: "File", Color: "#64748b",
		Extensions: []string{},
	},
}

// Categories returns the static category table in display order.
// The returned slice is a copy.
func Categories() []model.Category {
	out := make([]model.Category, len(defaultCategories))
	for i, c := range defaultCategories {
		c.Extensions = append([]string(nil), c.Extensions...)
		out[i] = c
	}
	return out
}

// BuildExtensionTable maps every declared extension to its category ID.
// Later categories win if two declare the same extension.
func BuildExtensionTable(categories []model.Category) map[string]string {
	table := make(map[string]string)
	for _, c := range categories {
		for _, ext := range c.Extensions {
			table[strings.ToLower(ext)] = c.ID
		}
	}
	return table
}

var extensionTable = sync.OnceValue(func() map[string]string {
	return BuildExtensionTable(defaultCategories)
})

// ExtensionTable returns the memoized extension table for the static categories.
// Callers must not modify the returned map.
func ExtensionTable() map[string]string {
	return extensionTable()
}

// NormalizeExtension lowercases ext and strips one leading dot.
func NormalizeExtension(ext string) string {
	return strings.TrimPrefix(strings.ToLower(ext), ".")
}

// CategoryFor returns the category ID for a file.
// Executables are split into installers and apps by name.
func CategoryFor(fileName, extension string) string {
	ext := NormalizeExtension(extension)

	if ext == executableExt {
		if isInstallerName(fileName) {
			return Installers
		}
		return Apps
	}

	if id, ok := ExtensionTable()[ext]; ok {
		return id
	}
	return Others
}

func isInstallerName(fileName string) bool {
	lower := strings.ToLower(fileName)
	for _, kw := range installerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ByID returns the category with the given ID, or the catch-all for unknown IDs.
func ByID(id string) model.Category {
	for _, c := range defaultCategories {
		if c.ID == id {
			return c
		}
	}
	return defaultCategories[len(defaultCategories)-1]
}

// Group is one category's share of a categorized file list.
type Group struct {
	Category  model.Category         `json:"category" yaml:"category"`
	Files     []model.FileDescriptor `json:"files" yaml:"files"`
	TotalSize int64                  `json:"totalSize" yaml:"totalSize"`
}

// Categorize partitions files by category. Every category appears in the
// result, including those with no files.
func Categorize(files []model.FileDescriptor) map[string]*Group {
	groups := make(map[string]*Group, len(defaultCategories))
	for _, c := range Categories() {
		groups[c.ID] = &Group{Category: c, Files: []model.FileDescriptor{}}
	}

	for _, f := range files {
		g := groups[CategoryFor(f.Name, f.Extension)]
		g.Files = append(g.Files, f)
		if f.Size > 0 {
			g.TotalSize += f.Size
		}
	}
	return groups
}
