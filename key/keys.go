// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback - these keys tune the playback clock and the frame prefetcher.
const (
	PlaybackSpeedMs   = "playback.speed_ms"
	PlaybackLookahead = "playback.lookahead"
	PlaybackAutoplay  = "playback.autoplay"
	PlaybackResume    = "playback.resume"
)

// Remote endpoints - these keys locate the simulation API and its frame stream.
const (
	ChannelURL = "channel.url"
	APIURL     = "api.url"
)

// Demo server - these keys configure the bundled frame server.
const (
	ServerAddr   = "server.addr"
	ServerFrames = "server.frames"
)

// History Tracking - these keys configure the persistence of resume points.
const (
	HistorySave = "history.save"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
