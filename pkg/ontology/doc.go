// SPDX-License-Identifier: MPL-2.0

// Package ontology holds the in-memory model of a controlled vocabulary:
// immutable Terms, accession-keyed TermSets, the per-vocabulary term Graph
// and the Access query surface built on it.
//
// Graphs are assembled with a Builder and never change afterwards, so every
// query is a lock-free read. Absent results are empty sets or a false ok,
// never errors.
package ontology
