package tilejson

import "strings"

// Merge combines the documents of a resolved source set into one document
// describing the merged endpoint. The order of docs is the resolution order
// and pins the order of name/description/attribution lists and of vector
// layer concatenation.
//
// With a single document the result is a verbatim clone with only the tiles
// URL replaced. With several documents:
//
//   - bounds are the progressive rectangle union of all present bounds;
//   - the first non-nil center wins, later ones never override it
//     (averaging independent centers can produce a point in the middle of nowhere);
//   - the merged zoom range is the union: min of minzooms, max of maxzooms;
//   - vector layers are concatenated in document order, never deduplicated;
//   - attribution and description collect non-empty values, first occurrence
//     wins position, duplicates dropped, joined with "\n"; names likewise but
//     joined with ",".
//
// A field absent from every document stays absent in the result.
func Merge(docs []TileJSON, tilesURL string) TileJSON {
	if len(docs) == 1 {
		tj := docs[0].Clone()
		tj.Tiles = []string{tilesURL}
		return tj
	}

	var attributions, descriptions, names []string
	result := New()
	result.Tiles = []string{tilesURL}

	for _, tj := range docs {
		for _, vl := range tj.VectorLayers {
			result.VectorLayers = append(result.VectorLayers, vl.Clone())
		}

		if tj.Attribution != "" && !contains(attributions, tj.Attribution) {
			attributions = append(attributions, tj.Attribution)
		}

		if tj.Bounds != nil {
			if result.Bounds != nil {
				b := result.Bounds.Extend(*tj.Bounds)
				result.Bounds = &b
			} else {
				b := *tj.Bounds
				result.Bounds = &b
			}
		}

		if result.Center == nil && tj.Center != nil {
			c := *tj.Center
			result.Center = &c
		}

		if tj.Description != "" && !contains(descriptions, tj.Description) {
			descriptions = append(descriptions, tj.Description)
		}

		if tj.MaxZoom != nil && (result.MaxZoom == nil || *result.MaxZoom < *tj.MaxZoom) {
			result.MaxZoom = cloneZoom(tj.MaxZoom)
		}

		if tj.MinZoom != nil && (result.MinZoom == nil || *result.MinZoom > *tj.MinZoom) {
			result.MinZoom = cloneZoom(tj.MinZoom)
		}

		if tj.Name != "" && !contains(names, tj.Name) {
			names = append(names, tj.Name)
		}
	}

	result.Attribution = strings.Join(attributions, "\n")
	result.Description = strings.Join(descriptions, "\n")
	result.Name = strings.Join(names, ",")

	return result
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
