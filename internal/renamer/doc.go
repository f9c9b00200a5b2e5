// Package renamer runs the directory passes: tagging image files with the
// code of their best catalog match, and pruning files that carry an excluded
// regional prefix.
//
// Both passes list the target directory once, consider only its direct plain
// files (symlinks to regular files included), and process them in name order.
// A missing directory or a permission failure aborts the pass; the returned
// result still describes the files handled before the failure, and nothing is
// rolled back. Per-file removal failures during pruning are collected and the
// pass continues.
package renamer
