package macrograph

// Version is the release version. Release builds override it with -ldflags "-X".
var Version = "0.1.0-dev"
