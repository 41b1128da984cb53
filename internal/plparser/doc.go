// Package plparser resolves a playlist URI into the flat list of media
// entries it refers to.
//
// A Parser classifies a URI (by name, and by content when the name is not
// conclusive), dispatches it to the decoder registered for its type and
// follows nested playlists up to a depth limit. Decoders never read the
// filesystem or network directly; every byte comes through a fetch.Fetcher so
// the engine is testable with fetch.Memory.
//
// Results are reported through a Listener as they are found: one EntryParsed
// call per media item and balanced PlaylistStarted/PlaylistEnded brackets for
// titled playlists. Collector and Parser.Events are convenience wrappers over
// the same callbacks.
package plparser
