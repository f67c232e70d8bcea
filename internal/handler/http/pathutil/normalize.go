// Package pathutil parses ids from request paths and collapses id-bearing
// paths into route templates for metric and span labels.
package pathutil

import "strings"

// idRoutes lists the routes whose last segment is an id, keyed by prefix.
var idRoutes = map[string]string{
	"/show_news/": "/show_news/{id}",
	"/delete/":    "/delete/{commentId}",
}

// NormalizePath converts a request path into a bounded label value.
// Query strings and a trailing slash are dropped; static paths pass through.
//
//	NormalizePath("/show_news/123")   // "/show_news/{id}"
//	NormalizePath("/delete/9")        // "/delete/{commentId}"
//	NormalizePath("/science-news/")   // "/science-news"
func NormalizePath(path string) string {
	path, _, _ = strings.Cut(path, "?")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	i := strings.LastIndexByte(path, '/')
	if i <= 0 {
		return path
	}
	if tmpl, ok := idRoutes[path[:i+1]]; ok {
		return tmpl
	}
	return path
}
