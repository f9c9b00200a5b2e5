package textutil

import "strings"

// placeholderReplacer maps characters rejected by common filesystems to underscores.
var placeholderReplacer = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	"\"", "_",
	"/", "_",
	"\\", "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// SanitizeFileName replaces each of <>:"/\|?* with an underscore. Other
// characters, including spaces, are kept as is.
func SanitizeFileName(name string) string {
	return placeholderReplacer.Replace(name)
}
