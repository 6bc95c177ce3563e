// Package config loads the parkdash configuration.
//
// Values are layered: built-in defaults (New), then a config file, then
// PARKDASH_* environment variables. The file format follows the extension:
// parkdash.json, parkdash.toml or parkdash.yaml.
//
// # Configuration File Structure
//
//	# parkdash.toml
//	locale = "de"
//
//	[server]
//	port = 8080
//	history = "web"     # web, hash or memory
//	base = ""
//
//	[server.not_found]
//	mode = "redirect"   # page or redirect
//	redirect = "dashboard"
//
//	[owners]
//	driver = "sqlite"
//	dsn = "parkdash.db"
//
//	[assets]
//	source = "s3"
//	max_size = "5MB"
//
//	[assets.s3]
//	bucket = "parkdash-assets"
//	region = "eu-central-1"
//
// # Usage
//
//	cfg, err := config.Load("parkdash.toml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println("Listening on", cfg.Server.Address())
package config
