package card

import (
	"mime"
	"strings"

	imagepkg "github.com/youruser/idcardapp/internal/image"
)

// DownloadName builds an attachment filename such as "idcard-00123.png".
func DownloadName(prefix, id string, format imagepkg.Format) string {
	parts := []string{}
	for _, p := range []string{prefix, id} {
		if s := sanitize(p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "card")
	}
	ext := format.Extension()
	if ext == "" {
		ext = imagepkg.FormatPNG.Extension()
	}
	return strings.Join(parts, "-") + ext
}

// ContentDisposition returns the header value that triggers a download of name.
func ContentDisposition(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), ".")
}
