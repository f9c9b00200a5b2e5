// Package catalog loads the title catalog that filenames are matched against.
//
// A catalog file holds one entry per line in the form "<CODE> <DISPLAY NAME>",
// split on the first space. Loading builds an ordered name-to-code mapping:
// iteration follows the first appearance of each name, while a later line
// with the same name replaces its code. Entries whose code starts with an
// excluded regional prefix are dropped during load.
//
// Parsing is permissive by default. Lines that do not split into a code and a
// name are skipped and counted in ParseStats rather than reported as errors;
// the Strict policy turns the first such line into a *LineError instead.
package catalog
