package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diskx/diskx/internal/scanner"
)

var remoteConfiguration struct {
	keyPath     string
	password    string
	useAgent    bool
	timeoutSecs int
}

var scanRemoteCommand = &cobra.Command{
	Use:   "scan-remote <target>",
	Short: "Scan a directory on a remote host over ssh",
	Long: "Accepts user@host:/path, host:/path, ssh://user@host/path, or " +
		"ssh://user@host:port/path (spec.md §4.4).",
	Args: cobra.ExactArgs(1),
	RunE: runScanRemote,
}

func init() {
	flags := scanRemoteCommand.Flags()
	flags.StringVar(&remoteConfiguration.keyPath, "key", "", "SSH private key path")
	flags.StringVar(&remoteConfiguration.password, "password", "", "SSH password (not persisted)")
	flags.BoolVar(&remoteConfiguration.useAgent, "agent", false, "authenticate via ssh-agent")
	flags.IntVar(&remoteConfiguration.timeoutSecs, "timeout", 10, "connect timeout in seconds")
}

func runScanRemote(cmd *cobra.Command, args []string) error {
	target, ok := scanner.ParseSshTarget(args[0])
	if !ok {
		return fmt.Errorf("%w: %q", scanner.ErrMalformedTarget, args[0])
	}

	auth := scanner.AuthKey
	switch {
	case remoteConfiguration.password != "":
		auth = scanner.AuthPassword
	case remoteConfiguration.useAgent:
		auth = scanner.AuthAgent
	}

	opts := scanner.RemoteOptions{
		Target:      target,
		Auth:        auth,
		KeyPath:     remoteConfiguration.keyPath,
		Password:    remoteConfiguration.password,
		TimeoutSecs: remoteConfiguration.timeoutSecs,
	}

	s := scanner.NewRemoteScanner(opts)
	done := make(chan struct{})
	go drainScanEvents(s.Events, done)

	result, err := s.Scan(context.Background())
	s.Events.Close()
	<-done
	if err != nil {
		return fmt.Errorf("scan-remote: %w", err)
	}

	return printScanResult(result, false)
}
