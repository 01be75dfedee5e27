// Package filler turns the input products of one event into output
// collections and links them together.
//
// Each Filler owns one output collection and the identity maps recording
// which input object produced which output record. Processing an event is a
// two-phase protocol driven by Producer:
//
//  1. Fill: every filler reads the input event and writes its collection
//     and identity maps. Fillers never read another filler's output here.
//  2. SetRefs: once every filler has filled, each filler resolves its
//     cross-collection references through the other fillers' identity maps.
//
// The barrier between the phases is the explicit loop in
// Producer.ProcessEvent; no filler relies on the order of the others.
package filler
