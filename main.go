// main is the entry point for the sustain CLI.
package main

import (
	"github.com/greenbyte/sustain/cmd"
	"github.com/greenbyte/sustain/internal/contract"
	"github.com/greenbyte/sustain/internal/iocache"
)

func main() {
	defer iocache.CloseHistory()
	defer func() { _ = cmd.StopProfiling() }()

	cmd.SetHistoryManager(iocache.Manager)
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Error", err)
	}
}
