// Package library reconciles catalog entries against locally downloaded
// installer files. It keeps one record per machine name for the life of the
// library, tracks download state by probing the filesystem, and relocates
// finished downloads into the library root.
package library
