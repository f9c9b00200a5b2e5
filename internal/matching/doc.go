// Package matching picks the catalog entry a filename most likely refers to.
//
// Names are folded with textutil.MatchKey and scored with textutil.Similarity.
// A candidate must strictly exceed the threshold, and replaces the running
// best only with a strictly higher score, so the first entry in catalog order
// wins exact ties.
package matching
