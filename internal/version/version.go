package version

// Version is overridden at build time:
// -ldflags "-X netenum/internal/version.Version=v1.2.3"
var Version = "dev"
