package version

// Set at build time with -ldflags "-X ...version.Version=...".
var Version = "dev"
