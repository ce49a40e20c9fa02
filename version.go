package main

// _version is the version of pagegloss reported by -version.
// Release builds override this with -ldflags.
var _version = "dev"
