package filter

import (
	"net/url"
	"strings"
)

// ProductsPath is the unprefixed filter endpoint.
const ProductsPath = "/products/"

// EndpointPath picks the filter endpoint for the page at currentPath. The
// language prefix is kept only when the first segment is a supported language.
func EndpointPath(currentPath string, languages []string) string {
	segments := strings.Split(strings.TrimPrefix(currentPath, "/"), "/")
	if len(segments) > 0 && segments[0] != "" {
		for _, lang := range languages {
			if strings.EqualFold(lang, segments[0]) {
				return "/" + segments[0] + ProductsPath
			}
		}
	}
	return ProductsPath
}

// splitLocation separates "/path?query" into its path and raw query.
func splitLocation(location string) (string, string) {
	u, err := url.Parse(location)
	if err != nil {
		path, query, _ := strings.Cut(location, "?")
		return path, query
	}
	return u.Path, u.RawQuery
}
