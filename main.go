package main

import (
	"net/http"

	"github.com/craftlaunch/craftlaunch/cmd"
	"github.com/craftlaunch/craftlaunch/internals/ownhttp"
)

// set by goreleaser
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// replace default http client, so every download carries our
	// user agent
	http.DefaultClient = ownhttp.New()

	cmd.Version = version
	cmd.Commit = commit
	cmd.Execute()
}
