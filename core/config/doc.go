// Package config provides the parsed provisioning document.
//
// It utilizes Viper for loading the declarative YAML document describing the
// bucket/object tree to materialize, layered with environment variables and an
// optional .env file for the ambient settings.
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings, divided into
// subsections:
//   - Credentials: storage backend user/password (passed through verbatim)
//   - Storage: endpoint, base bucket, and the ordered market/strategy tree
//   - Provision: readiness poll limits, server launch command, default tags
//   - Log: logging level and format
//
// The document location defaults to /config/config.yaml and is overridable
// via the PROVISIONER_CONFIG environment variable.
//
// # Usage
//
//	cfg, err := config.LoadConfig(config.Path())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.BaseBucket)
//
// Loading distinguishes a missing document (ErrConfigNotFound) from a
// malformed one (ErrConfigParse); an absent storage.markets list parses to an
// empty slice, which callers must treat as "nothing to provision".
package config
