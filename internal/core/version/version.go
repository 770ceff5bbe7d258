package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/furkhad/youtube/internal/core/version.Version=1.2.3" ./cmd/tubegrab
var Version = "0.3.0"
