package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"code.justin.tv/safety/ec2-restart/app"
	"code.justin.tv/safety/ec2-restart/cloud"
	awsFuncs "code.justin.tv/safety/ec2-restart/cloud/aws"
	"code.justin.tv/safety/ec2-restart/profile"
	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := app.ParseOptions(args)
	if err != nil {
		if app.IsHelp(err) {
			return app.ExitOK
		}
		return app.ExitConfiguration
	}

	log := app.NewLogger(opts.LogLevel, stderr)

	source, err := profile.DefaultSource()
	if err != nil {
		log.WithError(err).Debug("using environment overrides only")
	}
	log.WithField("config", source.ConfigFile).WithField("credentials", source.CredentialsFile).
		Debug("reading shared config files")

	a := &app.App{
		Profiles:   source.List,
		NewGateway: ec2Gateways(log),
		Interrupts: trapInterrupts,
		In:         stdin,
		Out:        stdout,
		Log:        log,
	}
	return a.Run(context.Background(), *opts)
}

func ec2Gateways(log logrus.FieldLogger) app.GatewayFactory {
	return func(profileName, region string) (cloud.Gateway, error) {
		sess, err := awsFuncs.NewSession(profileName, region)
		if err != nil {
			return nil, err
		}
		return awsFuncs.New(sess, log.WithField("region", region)), nil
	}
}

// trapInterrupts turns SIGINT/SIGTERM into a cancelled context so an in-flight
// SDK call or waiter returns
func trapInterrupts(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
