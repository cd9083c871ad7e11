package ignore

// DefaultIgnorePatterns are hidden from listings whenever ignore rules are enabled.
// None of them is readable text worth serving as a document.
var DefaultIgnorePatterns = []string{
	// Version control
	".git",
	".svn",
	".hg",

	// Tooling directories
	"node_modules",
	"__pycache__",
	".venv",
	".idea",
	".vscode",
	".vs",
	".cache",

	// Editor leftovers
	"*.swp",
	"*.swo",
	"*~",
	"#*#",

	// OS files
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",

	// Compiled / binary
	"*.exe",
	"*.dll",
	"*.so",
	"*.dylib",
	"*.o",
	"*.a",
	"*.class",
	"*.pyc",

	// Archives
	"*.zip",
	"*.tar",
	"*.tar.gz",
	"*.tgz",
	"*.rar",
	"*.7z",

	// Images, fonts and media
	"*.png",
	"*.jpg",
	"*.jpeg",
	"*.gif",
	"*.bmp",
	"*.ico",
	"*.webp",
	"*.woff",
	"*.woff2",
	"*.ttf",
	"*.otf",
	"*.mp3",
	"*.mp4",
	"*.mov",
	"*.wav",

	// Office formats are binary containers, not text
	"*.doc",
	"*.docx",
	"*.xls",
	"*.xlsx",
	"*.ppt",
	"*.pptx",
	"*.pdf",

	// Databases
	"*.sqlite",
	"*.sqlite3",
	"*.db",
}
