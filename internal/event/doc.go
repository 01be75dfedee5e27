// Package event defines the per-event input data model delivered by the host
// framework: electron candidates, photon candidates, superclusters, trigger
// objects, per-object value maps and per-event scalars.
//
// Every object is identified by a Ref (collection name + index). Refs are
// comparable and serve as identity keys in value maps and identity maps.
// Input objects are read-only; their lifetime is one event.
package event
