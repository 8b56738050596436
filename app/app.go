// Package app resolves the profile and instance to act on, prompting the
// operator for whatever was not given on the command line, and then runs the
// restart sequence.
package app

import (
	"context"
	"fmt"
	"io"

	"code.justin.tv/safety/ec2-restart/cloud"
	"code.justin.tv/safety/ec2-restart/menu"
	"code.justin.tv/safety/ec2-restart/profile"
	"code.justin.tv/safety/ec2-restart/restart"
	"github.com/sirupsen/logrus"
)

// Exit codes
const (
	ExitOK            = 0
	ExitConfiguration = 1
	ExitRestartFailed = 2
	ExitInterrupted   = 130
)

// ProfileLister enumerates the available credential profiles
type ProfileLister func() ([]string, error)

// GatewayFactory builds a gateway scoped to a profile and region
type GatewayFactory func(profile, region string) (cloud.Gateway, error)

// InterruptScope derives the context the restart sequence runs under. It is
// only entered once selection is done, so an interrupt at a menu keeps the
// default behaviour of ending the process.
type InterruptScope func(ctx context.Context) (context.Context, context.CancelFunc)

// App holds the collaborators of a single invocation
type App struct {
	Profiles   ProfileLister
	NewGateway GatewayFactory
	Interrupts InterruptScope
	In         io.Reader
	Out        io.Writer
	Log        logrus.FieldLogger
}

// Run executes one invocation and returns the process exit code
func (a *App) Run(ctx context.Context, opts Options) int {
	selector := menu.New(a.In, a.Out)

	profileName, code, ok := a.resolveProfile(selector, opts.Args.Profile)
	if !ok {
		return code
	}

	gateway, err := a.NewGateway(profileName, opts.Region)
	if err != nil {
		fmt.Fprintf(a.Out, "Error: %v\n", err)
		return ExitConfiguration
	}

	instanceID := opts.Instance
	if instanceID == "" {
		instanceID, code, ok = a.selectInstance(ctx, selector, gateway)
		if !ok {
			return code
		}
	}

	req := restart.Request{InstanceID: instanceID, Profile: profileName, Region: opts.Region}
	if a.Interrupts != nil {
		var cancel context.CancelFunc
		ctx, cancel = a.Interrupts(ctx)
		defer cancel()
	}
	if err := restart.New(gateway, a.Out, a.Log).Run(ctx, req); err != nil {
		fmt.Fprintf(a.Out, "An error occurred: %v\n", err)
		if ctx.Err() != nil {
			fmt.Fprintln(a.Out, "Interrupted; the instance may be left in an intermediate state.")
			return ExitInterrupted
		}
		if opts.StrictExit {
			return ExitRestartFailed
		}
	}
	return ExitOK
}

func (a *App) resolveProfile(selector *menu.Selector, requested string) (string, int, bool) {
	profiles, err := a.Profiles()
	if err != nil {
		a.Log.WithError(err).Warn("failed to read some shared config files")
	}

	if requested != "" {
		if !profile.Contains(profiles, requested) {
			fmt.Fprintf(a.Out, "Error: The config profile (%s) could not be found\n", requested)
			return "", ExitConfiguration, false
		}
		return requested, ExitOK, true
	}

	if len(profiles) == 0 {
		fmt.Fprintln(a.Out, "No AWS profiles found. Please configure AWS credentials.")
		return "", ExitConfiguration, false
	}

	fmt.Fprintln(a.Out, "Available AWS Profiles:")
	choice, err := selector.SelectOne(profiles, "Select a profile")
	if err != nil {
		fmt.Fprintf(a.Out, "Error: %v\n", err)
		return "", ExitConfiguration, false
	}
	return profiles[choice-1], ExitOK, true
}

func (a *App) selectInstance(ctx context.Context, selector *menu.Selector, gateway cloud.Gateway) (string, int, bool) {
	instances, err := gateway.ListInstances(ctx)
	if err != nil {
		fmt.Fprintf(a.Out, "Error: %v\n", err)
		return "", ExitConfiguration, false
	}
	if len(instances) == 0 {
		fmt.Fprintln(a.Out, "No instances found.")
		return "", ExitOK, false
	}

	labels := make([]string, len(instances))
	for i, instance := range instances {
		labels[i] = instance.Label()
	}

	fmt.Fprintln(a.Out, "Available Instances:")
	choice, err := selector.SelectOne(labels, "Select an instance")
	if err != nil {
		fmt.Fprintf(a.Out, "Error: %v\n", err)
		return "", ExitConfiguration, false
	}
	return instances[choice-1].ID, ExitOK, true
}
