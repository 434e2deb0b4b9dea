// Package common holds enumerations shared by configuration and processing
// packages. Methods are generated by go-enum, see Taskfile.yml.
package common

// Order in which discovered chapter files are arranged. Lexical order relies
// on zero padded sort keys in file names, natural order compares embedded
// numbers by value.
// ENUM(lexical, natural)
type ChapterOrder int
