// Package output defines the records persisted for downstream analysis:
// ranked electron records, superclusters, and the branch schema describing
// which record fields exist for a given run.
//
// Records are owned by an output Event and are valid for one event only;
// Reset clears them before the next event is filled.
package output
