package swagger

import "strings"

// RemoveCurlyBraces strips every '{' and '}' from s.
func RemoveCurlyBraces(s string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(s)
}

// AddQueryParam appends param, in key=value form, to the query string of url.
// The url is returned unchanged when param already appears after the '?'.
func AddQueryParam(url, param string) string {
	q := strings.IndexByte(url, '?')
	if q < 0 {
		return url + "?" + param
	}
	query := url[q+1:]
	switch {
	case strings.Contains(query, param):
		return url
	case query == "":
		return url + param
	default:
		return url + "&" + param
	}
}
