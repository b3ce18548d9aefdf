// Package config loads and watches the scoreboard configuration file.
//
// Top-level types:
//   - Config{Source, Display, Server, Log}: full config tree parsed from YAML
//   - SourceConfig: spreadsheet_id, base_url, timeout, auth
//   - AuthConfig: mode (apikey|bearer|none), key_env, token_env; Key() and
//     Token() resolve from environment variables
//   - DisplayConfig: poll_interval, rotate_interval, initial_mode, pages []
//   - PageConfig: id, range, type (chart|list), header, accent_color, optional
//   - ServerConfig: http_port, broadcast_interval, ui_dir, auth
//   - LogConfig: level, the only field applied on hot reload
//
// Load(path) reads the YAML file, applies defaults (3s poll, 10s rotation,
// 5s broadcast, port 8080, info logging), then validates required fields and
// enums. DisplayConfig.PageTable() converts pages into the runtime table.
//
// Watch(ctx, path, onChange) watches the file's directory with fsnotify and
// calls onChange with the newly parsed Config whenever the file is written
// or replaced, including replacement by rename.
package config
