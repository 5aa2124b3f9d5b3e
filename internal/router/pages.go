package router

import (
	"fmt"
	"html"
	"strings"
)

func crlf(s string) []byte {
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

func respond200() []byte {
	return crlf(`<!DOCTYPE html>
<html>
<head><title>Sample</title></head>
<body>This server is implemented with Go!</body>
</html>
`)
}

// respond404 reflects path into the page as given unless escape is set.
// The raw form lets a crafted path inject markup.
func respond404(path string, escape bool) []byte {
	if escape {
		path = html.EscapeString(path)
	}

	return crlf(fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>404 Not Found</title></head>
<body>%s is not found</body>
</html>
`, path))
}

func respond400() []byte {
	return crlf(`<!DOCTYPE html>
<html>
<head><title>400 Bad Request</title></head>
<body>Bad Request</body>
</html>
`)
}
