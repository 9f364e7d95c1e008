package types

// Version is the application version, overridden at build time via ldflags
var Version = "v0.1.0"

// AppName is the CLI command name
const AppName = "utmget"
