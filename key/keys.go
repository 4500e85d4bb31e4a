// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Media Playback - these keys maintain the defaults applied to every new playback session.
const (
	PlayerEngine     = "player.engine"
	PlayerVolume     = "player.volume"
	PlayerMuted      = "player.muted"
	PlayerLoop       = "player.loop"
	PlayerFullscreen = "player.fullscreen"
	PlayerSeekStep   = "player.seek_step"
	PlayerVolumeStep = "player.volume_step"
	PlayerResume     = "player.resume"
)

// Source Probing - these keys govern media-type detection for playback sources.
const (
	ProbeNetwork  = "probe.network"
	ProbeCacheTTL = "probe.cache_ttl_hours"
)

// Terminal User Interface (TUI) - these keys define the transport view's styling and behavior.
const (
	TUIProgressWidth = "tui.progress_width"
	TUIShowSource    = "tui.show_source"
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
