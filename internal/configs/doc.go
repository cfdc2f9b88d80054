// Package configs loads and writes envelope's project configuration.
//
// A project is described by an envelope.toml file naming where each key and
// data file lives:
//
//	[keys]
//	symmetric_bits = 256
//
//	[paths]
//	symmetric_key  = "keys/symmetric.key"
//	public_key     = "keys/public.pem"
//	private_key    = "keys/private.pem"
//	...
//
// Relative paths resolve against the directory holding the config file.
//
// # Discovery
//
// FindConfig honours an explicit --config path, then $ENVELOPE_CONFIG, then
// walks up from the working directory to the nearest envelope.toml or
// path.json. InitProjectSettings runs discovery and stores the result in
// ProjectEnvelopeSettings for the rest of the command.
//
// # Legacy path.json
//
// Older releases used a flat JSON file with *_path keys. It is still read
// directly, and MigrateProject converts it to envelope.toml while keeping a
// backup of the original.
package configs
