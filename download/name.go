package download

import (
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// FallbackName is used when neither the response nor the URL suggest a
// file name.
const FallbackName = "download"

// ResolveName picks the name for a downloaded file, in order of
// preference: the extended filename* parameter of Content-Disposition,
// its plain filename parameter, the last segment of u's path and finally
// FallbackName. Surrounding quotes and directory components are stripped.
func ResolveName(header http.Header, u *url.URL) string {
	if name := dispositionName(header.Get("Content-Disposition")); name != "" {
		return name
	}

	if u != nil {
		if name := clean(path.Base(u.Path)); name != "" {
			return name
		}
	}

	return FallbackName
}

// dispositionName relies on mime.ParseMediaType, which decodes RFC 2231
// extended values and lets filename* take precedence over filename.
func dispositionName(disposition string) string {
	if disposition == "" {
		return ""
	}

	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}

	return clean(params["filename"])
}

func clean(name string) string {
	name = strings.Trim(strings.TrimSpace(name), `"`)
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)

	switch name {
	case ".", "..", "/":
		return ""
	}

	return name
}
