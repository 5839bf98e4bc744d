// Package index builds the Code Index from PDF documents.
//
// A Loader extracts the printed codes of every page, upper-cases and
// de-duplicates them per page, and stores them as page-code entries. A file
// whose signature (absolute path, size, modification time) matches the stored
// one is not re-read; a changed file has its previous entries dropped first.
// An index.lock file in the data directory keeps two processes from indexing
// at the same time.
package index
