// Command plparse resolves playlists, disc images and optical drives into
// flat lists of playable entries.
//
// The CLI is built on cobra. Most commands run in-process against the same
// resolver the daemon uses; `plparse serve` starts the daemon itself (HTTP API,
// optional disc watching, history maintenance) in the foreground.
//
// Configuration is loaded once per invocation from --config, the default
// ~/.config/plparse/config.toml, or ./plparse.toml. Commands that must work
// without a valid configuration (config init) opt out with the
// skipConfigLoad annotation.
package main
